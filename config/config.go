package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinDownloadSecretLength is the minimum required length for the download link secret in production
	MinDownloadSecretLength = 32
)

// Export modes
const (
	ExportModeAuto   = "auto"
	ExportModeChrome = "chrome"
	ExportModeText   = "text"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	// Export
	ChromePath     string
	ExportMode     string // auto, chrome, text
	ExportCacheTTL time.Duration
	// Redis export cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Signed download links
	DownloadSecret  string
	DownloadLinkTTL time.Duration
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged to console instead of sent
	// Other
	AllowedOrigins   []string
	AppURL           string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Cloudflare R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	downloadSecret := getEnv("DOWNLOAD_SECRET", "")

	// Validate download secret - this will fatal in production if invalid
	ValidateDownloadSecret(downloadSecret, environment)

	// In development, generate a secure secret if none provided
	if downloadSecret == "" && environment != "production" {
		downloadSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary download secret for development. Set DOWNLOAD_SECRET env var for persistence.")
	}

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "db/app.db"),
		Environment:       environment,
		UploadDir:         getEnv("UPLOAD_DIR", "static/uploads"),
		ChromePath:        getEnv("CHROME_PATH", ""),
		ExportMode:        NormalizeExportMode(getEnv("EXPORT_MODE", ExportModeAuto)),
		ExportCacheTTL:    getEnvDuration("EXPORT_CACHE_TTL", 10*time.Minute),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		DownloadSecret:    downloadSecret,
		DownloadLinkTTL:   getEnvDuration("DOWNLOAD_LINK_TTL", time.Hour),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		EmailFrom:         getEnv("EMAIL_FROM", "noreply@suratpernyataan.id"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Generator Surat Pernyataan"),
		EmailTestMode:     getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:            getEnv("APP_URL", "http://localhost:8080"),
		TursoDatabaseURL:  getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:    os.Getenv("TURSO_AUTH_TOKEN"),
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
	}
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// NormalizeExportMode maps an EXPORT_MODE value to a known mode, auto when unknown
func NormalizeExportMode(mode string) string {
	switch strings.ToLower(mode) {
	case ExportModeChrome:
		return ExportModeChrome
	case ExportModeText:
		return ExportModeText
	case ExportModeAuto:
		return ExportModeAuto
	default:
		log.Printf("[WARNING] Unknown EXPORT_MODE %q, using auto", mode)
		return ExportModeAuto
	}
}

// ValidateDownloadSecret validates the download link secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateDownloadSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] DOWNLOAD_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] DOWNLOAD_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" {
		if len(secret) < MinDownloadSecretLength {
			log.Fatalf("[CRITICAL] DOWNLOAD_SECRET must be at least %d characters in production (current: %d). Generate with: openssl rand -base64 32", MinDownloadSecretLength, len(secret))
		}
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
