package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	// Session token verification
	JWTSecret string // HS256 shared secret
	JWKSURL   string // RS256 key set, optional
	// SMTP Configuration (Brevo relay)
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	// Brevo contacts API (waitlist sync)
	BrevoAPIURL string
	BrevoAPIKey string
	BrevoListID int64
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Access guard
	GuardFailOpen     bool
	GuardFetchTimeout time.Duration
	// Onboarding drafts
	DraftTTL time.Duration
	// Rate Limiting Configuration
	RateLimitWindowSeconds     int
	RateLimitWaitlistThreshold int
	RateLimitGlobalThreshold   int
	// Notifications
	UnreadCountCacheTTL time.Duration
	// Operator routes (waitlist stats); empty disables them
	AdminAPIKey string
	// Secure cookies and HSTS outside local development
	Production bool
}

func LoadConfig() (*Config, error) {
	// Only effective locally; a missing .env file is ignored.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWKSURL:     strings.TrimRight(getEnv("JWKS_URL", ""), "/"),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),
		// Brevo
		BrevoAPIURL: strings.TrimRight(getEnv("BREVO_API_URL", "https://api.brevo.com/v3"), "/"),
		BrevoAPIKey: getEnv("BREVO_API_KEY", ""),
		BrevoListID: int64(getEnvInt("BREVO_LIST_ID", 0)),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Access guard: fail open unless product explicitly asks otherwise
		GuardFailOpen:     getEnvBool("GUARD_FAIL_OPEN", true),
		GuardFetchTimeout: getEnvDuration("GUARD_FETCH_TIMEOUT", 5*time.Second),
		DraftTTL:          time.Duration(getEnvInt("DRAFT_TTL_HOURS", 24*7)) * time.Hour,
		// Rate Limiting Configuration
		RateLimitWindowSeconds:     getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitWaitlistThreshold: getEnvInt("RATE_LIMIT_WAITLIST_THRESHOLD", 5),
		RateLimitGlobalThreshold:   getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		UnreadCountCacheTTL:        getEnvDuration("UNREAD_COUNT_CACHE_TTL", 15*time.Second),
		AdminAPIKey:                getEnv("ADMIN_API_KEY", ""),
		Production:                 getEnv("GIN_MODE", "") == "release",
	}

	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		log.Println("WARNING: neither JWT_SECRET nor JWKS_URL is set. Every session will be anonymous.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Drafts and rate limits will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("5s", "250ms").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
