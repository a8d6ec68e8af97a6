package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type JWTConfig struct {
	Secret           string
	ExpiresIn        time.Duration
	CookieExpiresIn  int // days
	MaxLoginAttempts int
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type Config struct {
	Env              string
	Port             string
	DatabaseURL      string
	FrontendURL      string
	CORSAllowOrigins string
	JWT              JWTConfig
	Email            EmailConfig
	Stripe           StripeConfig
	RateLimit        RateLimitConfig
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.Env = getEnv("APP_ENV", "development")
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.FrontendURL = strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/")
	cfg.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	// JWT
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.ExpiresIn = getDuration("JWT_EXPIRES_IN", 90*24*time.Hour)
	cfg.JWT.CookieExpiresIn = getInt("JWT_COOKIE_EXPIRES_IN", 90)
	cfg.JWT.MaxLoginAttempts = getInt("NUMBER_LOGIN_ATTEMPTS", 5)

	// Email
	cfg.Email.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Email.FromAddress = getEnv("EMAIL_FROM_ADDRESS", "hello@natours.dev")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "Natours")
	cfg.Email.SMTPHost = getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io")
	cfg.Email.SMTPPort = getInt("SMTP_PORT", 2525)
	cfg.Email.SMTPUser = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPass = os.Getenv("SMTP_PASS")

	// Stripe
	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.Currency = getEnv("STRIPE_CURRENCY", "usd")

	// Rate limiting
	cfg.RateLimit.Max = getInt("RATE_LIMIT_MAX", 100)
	cfg.RateLimit.Window = getDuration("RATE_LIMIT_WINDOW", time.Hour)

	return cfg
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.JWT.MaxLoginAttempts < 1 {
		errs = append(errs, errors.New("NUMBER_LOGIN_ATTEMPTS must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) CookieTTL() time.Duration {
	return time.Duration(c.JWT.CookieExpiresIn) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
