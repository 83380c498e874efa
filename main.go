package main

import (
	"context"
	"log"

	"toolmove/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// System environment variables win over .env entries.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(context.Background())
}
