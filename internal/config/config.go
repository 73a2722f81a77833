package config

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
)

// ErrNoSessionSecret is returned by CookieKey when SESSION_SECRET is unset.
var ErrNoSessionSecret = errors.New("SESSION_SECRET is not set")

type Config struct {
	AppEnv string

	// Store: "postgres" or "memory"
	StoreDriver string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	SessionSecret string
	SessionExpiry time.Duration
	RedisURL      string

	// JWT (API clients only; browser traffic uses the session cookie)
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Images: "local" or "s3"
	ImageStore  string
	UploadDir   string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Folder    string

	// Signup
	SignupCheckMX   bool
	MXLookupTimeout time.Duration

	// Rate limiting (0 disables)
	RateLimitMax     int
	RateLimitWindow  time.Duration
	AuthRateLimitMax int

	// Server
	Port        string
	CORSOrigins string

	// Observability
	LogRetentionDays int
	SentryDSN        string
}

// Load reads configuration from the environment. Outside production a
// local .env file is loaded first when present.
func Load() *Config {
	if getEnv("APP_ENV", "development") != "production" {
		_ = godotenv.Load()
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "postgres")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "homeaway"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionExpiry: parseDuration(getEnv("SESSION_EXPIRY", "168h"), 7*24*time.Hour),
		RedisURL:      getEnv("REDIS_URL", ""),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),

		ImageStore:  strings.ToLower(getEnv("IMAGE_STORE", "local")),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Folder:    getEnv("S3_FOLDER", "Homeaway_DEV"),

		SignupCheckMX:   parseBool(getEnv("SIGNUP_CHECK_MX", "true"), true),
		MXLookupTimeout: parseDuration(getEnv("MX_LOOKUP_TIMEOUT", "3s"), 3*time.Second),

		RateLimitMax:     parseInt(getEnv("RATE_LIMIT_MAX", "100"), 100),
		RateLimitWindow:  parseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"), 15*time.Minute),
		AuthRateLimitMax: parseInt(getEnv("AUTH_RATE_LIMIT_MAX", "5"), 5),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CookieKey returns the base64 AES-256 key for cookie encryption.
// SESSION_SECRET may already be such a key; any other value is treated as
// a passphrase and stretched into one with HKDF-SHA256.
func (c *Config) CookieKey() (string, error) {
	if c.SessionSecret == "" {
		return "", ErrNoSessionSecret
	}
	if raw, err := base64.StdEncoding.DecodeString(c.SessionSecret); err == nil && len(raw) == 32 {
		return c.SessionSecret, nil
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(c.SessionSecret), nil, []byte("homeaway session cookie"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}
