package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	DataDir        string
	StorageBackend string
	CatalogBaseURL string
	TaxRate        float64
	SessionSecret  string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         os.Getenv("APP_ENV"),
		DataDir:        getenv("DATA_DIR", ".marketgo"),
		StorageBackend: getenv("STORAGE_BACKEND", "file"),
		CatalogBaseURL: getenv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		TaxRate:        getenvFloat("TAX_RATE", 0.08),
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
	}

	if cfg.StorageBackend == "postgres" && cfg.DBHost == "" {
		log.Fatal("STORAGE_BACKEND=postgres requires DB_* environment variables")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return f
}
