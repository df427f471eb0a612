// Command server runs the flashdeck HTTP API.
package main

import (
	"context"
	"log"

	"github.com/heartmarshall/flashdeck-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
