package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
	Redis    RedisConfig
	Mail     MailConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

// GatewayConfig holds the payment gateway credentials. The public/private
// key pair authenticates the merchant against the remote gateway.
type GatewayConfig struct {
	BaseURL    string
	MerchantID string
	PublicKey  string
	PrivateKey string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MailConfig struct {
	BaseURL           string
	BasicAuthUsername string
	BasicAuthPassword string
	SenderEmail       string
	SenderName        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := 0
	if val := os.Getenv("REDIS_DB"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
		redisDB = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Gomart API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "gomart"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Gateway: GatewayConfig{
			BaseURL:    getEnv("GATEWAY_BASE_URL", ""),
			MerchantID: getEnv("GATEWAY_MERCHANT_ID", ""),
			PublicKey:  getEnv("GATEWAY_PUBLIC_KEY", ""),
			PrivateKey: getEnv("GATEWAY_PRIVATE_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Mail: MailConfig{
			BaseURL:           getEnv("MAIL_BASE_URL", ""),
			BasicAuthUsername: getEnv("MAIL_BASIC_AUTH_USERNAME", ""),
			BasicAuthPassword: getEnv("MAIL_BASIC_AUTH_PASSWORD", ""),
			SenderEmail:       getEnv("MAIL_SENDER_EMAIL", ""),
			SenderName:        getEnv("MAIL_SENDER_NAME", ""),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Gateway.BaseURL == "" {
		return nil, errors.New("missing payment gateway base url")
	}

	if cfg.Gateway.PrivateKey == "" {
		return nil, errors.New("missing payment gateway private key")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
