package config

import (
	"os"

	"github.com/joho/godotenv"
)

// App holds every runtime setting. Almost everything here is optional by
// design: persistence, blob storage and the admin surface each degrade to a
// disabled state when their variable is unset instead of failing startup.
type App struct {
	Port string

	// StorageBackend selects the record store: "postgres", "mysql", "blob"
	// or "" (persistence disabled).
	StorageBackend string
	DatabaseURL    string
	MySQLDSN       string

	// DataBucket is the GCS bucket holding the JSON collections of the
	// "blob" backend. ImageBucket holds uploaded/enhanced image bytes.
	DataBucket  string
	ImageBucket string

	GeminiAPIKey  string
	AdminPassword string
}

// Load reads the environment, with .env as a convenience for local runs.
func Load() App {
	_ = godotenv.Load()

	return App{
		Port:           getenv("PORT", "3000"),
		StorageBackend: os.Getenv("STORAGE_BACKEND"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MySQLDSN:       os.Getenv("MYSQL_DSN"),
		DataBucket:     os.Getenv("DATA_BUCKET"),
		ImageBucket:    os.Getenv("IMAGE_BUCKET"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
