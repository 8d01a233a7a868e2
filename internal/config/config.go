package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins []string

	// Airtable record store
	AirtablePAT    string
	AirtableBaseID string
	ProductsTable  string
	HoldsTable     string
	SalesTable     string

	// Resend email
	ResendAPIKey    string
	ResendFromEmail string
	AdminEmail      string

	// ImageKit image hosting
	ImageKitPrivateKey string
	ImageKitFolder     string

	// Admin auth
	JWTSecret     string
	AdminLogin    string
	AdminPassword string

	// Optional Redis cache for the storefront listing
	UseCache      bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      int // seconds
}

// Load reads configuration from an optional .env file and the environment.
func Load() *Config {
	// .env is optional, real environment variables win.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		AirtablePAT:    os.Getenv("AIRTABLE_PAT"),
		AirtableBaseID: os.Getenv("AIRTABLE_BASE_ID"),
		ProductsTable:  getEnv("AIRTABLE_PRODUCTS_TABLE", "Products"),
		HoldsTable:     getEnv("AIRTABLE_HOLDS_TABLE", "Holds"),
		SalesTable:     getEnv("AIRTABLE_SALES_TABLE", "Sales"),

		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		ResendFromEmail: os.Getenv("RESEND_FROM_EMAIL"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),

		ImageKitPrivateKey: os.Getenv("IMAGEKIT_PRIVATE_KEY"),
		ImageKitFolder:     getEnv("IMAGEKIT_FOLDER", "products"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminLogin:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		UseCache:      getEnvAsBool("USE_CACHE", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsInt("CACHE_TTL", 120),
	}
}

// Validate checks the settings that must be present before any backend call.
func (c *Config) Validate() error {
	var missing []string
	if c.AirtablePAT == "" {
		missing = append(missing, "AIRTABLE_PAT")
	}
	if c.AirtableBaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.AdminLogin == "" {
		missing = append(missing, "ADMIN_EMAIL")
	}
	if c.AdminPassword == "" {
		missing = append(missing, "ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
