package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

// Store backends.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Image store backends.
const (
	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

// Config is loaded once at startup and shared read-only by pointer.
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string

	Store       string
	DatabaseDSN string

	JWTSecret string
	// JWTExpiry of zero issues tokens without an exp claim.
	JWTExpiry time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	MailTimeout  time.Duration

	ImageStore   string
	StaticDir    string
	ImageTimeout time.Duration
	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
}

func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://127.0.0.1:8080"), "/"),
		Store:         getEnv("STORE", StoreMySQL),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/storefront?parseTime=true"),
		JWTSecret:     getEnv("JWT_SECRET", devJWTSecret),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		ImageStore:    getEnv("IMAGE_STORE", ImageStoreLocal),
		StaticDir:     getEnv("STATIC_DIR", "./static"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),
		S3AccessKey:   getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getEnv("S3_SECRET_KEY", ""),
	}
	cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPUsername)

	var err error
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", 0); err != nil {
		return Config{}, err
	}
	if cfg.MailTimeout, err = getDuration("MAIL_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ImageTimeout, err = getDuration("IMAGE_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Env == "production" && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production environment")
	}
	if c.JWTExpiry < 0 {
		return errors.New("JWT_EXPIRY must not be negative")
	}
	switch c.Store {
	case StoreMySQL, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore)
	}
	return nil
}

// HTTPAddress returns the address the HTTP server binds to.
func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

// MailEnabled reports whether an SMTP relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// LogValue keeps secrets out of structured logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", c.Port),
		slog.String("env", c.Env),
		slog.String("public_base_url", c.PublicBaseURL),
		slog.String("store", c.Store),
		slog.Duration("jwt_expiry", c.JWTExpiry),
		slog.Bool("mail_enabled", c.MailEnabled()),
		slog.String("smtp_host", c.SMTPHost),
		slog.String("image_store", c.ImageStore),
		slog.String("s3_bucket", c.S3Bucket),
	)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
