package infakt

import "time"

// dateLayout is the wire format the API expects for all invoice dates.
const dateLayout = "2006-01-02"

// DefaultInvoiceDate computes the invoice date used when the caller does not
// supply one: before the 15th of a month the invoice is assumed to bill for
// the previous month, from the 15th on it bills for the current month. The
// returned date is always the last calendar day of the target month,
// formatted YYYY-MM-DD.
func DefaultInvoiceDate(today time.Time) string {
	year := today.Year()
	var month time.Month

	if today.Month() == time.January {
		if today.Day() < 15 {
			year--
			month = time.December
		} else {
			month = time.January
		}
	} else {
		if today.Day() < 15 {
			// Billing for the previous month. The year never changes on
			// this branch: February is the earliest month reaching here,
			// and its previous month is January of the same year.
			first := time.Date(year, today.Month(), 1, 0, 0, 0, 0, time.UTC)
			month = first.AddDate(0, 0, -1).Month()
		} else {
			month = today.Month()
		}
	}

	// Day zero of the following month normalizes to the last day of month.
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Format(dateLayout)
}

// PaymentDate returns invoiceDate shifted forward by paymentDays calendar
// days, crossing month and year boundaries as needed.
func PaymentDate(invoiceDate string, paymentDays int) (string, error) {
	day, err := time.Parse(dateLayout, invoiceDate)
	if err != nil {
		return "", err
	}
	return day.AddDate(0, 0, paymentDays).Format(dateLayout), nil
}
