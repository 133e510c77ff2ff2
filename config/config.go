package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	ServerPort    string
	InvoiceDir    string
	IssuerName    string
	IssuerAddress string
	SeedDemoData  bool
}

func Load() *Config {
	// Missing .env is fine; the environment wins either way.
	godotenv.Load()

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/timebill"),
		JWTSecret:     getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		InvoiceDir:    getEnv("INVOICE_DIR", "invoices"),
		IssuerName:    getEnv("ISSUER_NAME", "Timebill Consulting"),
		IssuerAddress: getEnv("ISSUER_ADDRESS", ""),
		SeedDemoData:  getEnv("SEED_DEMO_DATA", "") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
