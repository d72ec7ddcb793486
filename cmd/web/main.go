package main

import (
	"dlibrary_backend/internal/app"
	"dlibrary_backend/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("application failed", "error", err.Error())
	}
}
