// Command tripctl talks to the itinerary planner from a terminal, renders
// tables as PDF documents, and applies database migrations.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	// Environment variables win over the optional .env file.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
