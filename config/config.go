// config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds the process-level settings read from the environment
type Config struct {
	Port string
	Env  string

	MongoURI string
	DBName   string

	SMTPHost  string
	SMTPPort  int
	EmailUser string
	EmailPass string
	FromEmail string

	TwitterBearerToken string
	TwitterUploadURL   string
	TwitterAPIURL      string
	TweetStatus        string

	UploadDir          string
	OTPRequestsPerHour int
	CORSAllowedOrigins []string
}

// Load reads the configuration from environment variables, applying defaults
func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		Env:                os.Getenv("ENV"),
		DBName:             getEnv("DB_NAME", "audiogate"),
		SMTPHost:           getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		EmailUser:          os.Getenv("EMAIL_USER"),
		EmailPass:          os.Getenv("EMAIL_PASS"),
		TwitterBearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
		TwitterUploadURL:   getEnv("TWITTER_UPLOAD_URL", "https://upload.twitter.com/1.1/media/upload.json"),
		TwitterAPIURL:      getEnv("TWITTER_API_URL", "https://api.twitter.com/1.1/statuses/update.json"),
		TweetStatus:        getEnv("TWEET_STATUS", "Here is my audio tweet"),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		OTPRequestsPerHour: getEnvInt("OTP_REQUESTS_PER_HOUR", 5),
	}
	cfg.FromEmail = getEnv("FROM_EMAIL", cfg.EmailUser)

	// Check both MONGO_URI and MONGODB_URI
	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		cfg.MongoURI = os.Getenv("MONGODB_URI")
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
			}
		}
	}

	if cfg.EmailUser == "" || cfg.EmailPass == "" {
		log.Printf("WARNING: EMAIL_USER or EMAIL_PASS is missing, OTP emails will fail")
	}
	if cfg.TwitterBearerToken == "" {
		log.Printf("WARNING: TWITTER_BEARER_TOKEN is missing, audio publishing will fail")
	} else {
		log.Printf("Twitter bearer token: [CONFIGURED]")
	}

	return cfg
}

// IsDevelopment reports whether the process runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using %d", key, v, fallback)
		return fallback
	}
	return n
}
