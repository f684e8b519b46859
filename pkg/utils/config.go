package utils

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	Database     DatabaseConfig
	JWT          JWTConfig
	Email        EmailConfig
	Confirmation ConfirmationConfig
	HTTP         HTTPConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
	Issuer      string
}

// TokenTTL returns the access token lifetime
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type ConfirmationConfig struct {
	ExpiryMinutes int
	Length        int
}

// TTL returns how long a confirmation code stays redeemable
func (c ConfirmationConfig) TTL() time.Duration {
	return time.Duration(c.ExpiryMinutes) * time.Minute
}

type HTTPConfig struct {
	CORSOrigins        []string
	AuthRateLimit      int
	AuthRateWindowSecs int
	ShutdownTimeout    time.Duration
}

// LoadConfig reads the optional env file at path and overlays process environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("APP_NAME", "yamdb")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_ISSUER", "yamdb")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "noreply@yamdb.local")
	v.SetDefault("CONFIRMATION_EXPIRY_MINUTES", 60)
	v.SetDefault("CONFIRMATION_LENGTH", 6)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("AUTH_RATE_WINDOW_SECONDS", 60)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	// .env is optional, environment variables always win
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
			Issuer:      v.GetString("JWT_ISSUER"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		Confirmation: ConfirmationConfig{
			ExpiryMinutes: v.GetInt("CONFIRMATION_EXPIRY_MINUTES"),
			Length:        v.GetInt("CONFIRMATION_LENGTH"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:        splitList(v.GetString("CORS_ORIGINS")),
			AuthRateLimit:      v.GetInt("AUTH_RATE_LIMIT"),
			AuthRateWindowSecs: v.GetInt("AUTH_RATE_WINDOW_SECONDS"),
			ShutdownTimeout:    time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
