package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/sceneit/sceneit-server/blobstore"
	"github.com/sceneit/sceneit-server/config"
	"github.com/sceneit/sceneit-server/gemini"
	handler "github.com/sceneit/sceneit-server/handlers"
	"github.com/sceneit/sceneit-server/router"
	"github.com/sceneit/sceneit-server/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	if st == nil {
		log.Println("No storage backend configured; persistence is disabled")
	} else {
		defer func() {
			if err := st.Close(); err != nil {
				log.Printf("Error closing the record store: %v", err)
			}
		}()
	}

	blobs, err := blobstore.New(ctx, cfg.ImageBucket)
	if err != nil {
		log.Fatalf("Failed to create blob uploader: %v", err)
	}
	if blobs == nil {
		log.Println("No image bucket configured; image persistence is disabled")
	}

	var enhancer handler.Enhancer
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create gemini client: %v", err)
		}
		enhancer = client
	} else {
		log.Println("GEMINI_API_KEY not set; /api/enhance will refuse requests")
	}

	app := fiber.New(fiber.Config{
		// Data-URL uploads are large; the decoded image is capped separately
		// in the enhance handler.
		BodyLimit: 32 << 20,
	})

	h := handler.New(cfg, st, blobs, enhancer)
	router.SetupRoutes(app, h, cfg)

	fmt.Printf("Server is listening at the port %s\n", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
