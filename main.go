package main

import (
	"log"

	"github.com/joho/godotenv"
	"infakttools/cmd"
	"infakttools/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Initialize logger from LOG_* environment variables
	if err := logger.Setup(logger.FromEnv()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Execute CLI commands
	cmd.Execute()
}
