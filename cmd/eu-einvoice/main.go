package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/rezonia/eu-einvoice/cmd/eu-einvoice/cmd"
)

func main() {
	// optional .env for local development
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
