package main

import (
	"log"

	"github.com/joho/godotenv"

	"tlh_backend/internal/app"
)

func main() {
	// .env is optional; containers inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app.Run()
}
