package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AppName    string `env:"APP_NAME,     default=ShareMyRevenue"`
	BaseAPIURL string `env:"BASE_API_URL, default=http://localhost:8080"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// AdminPhone1/2 auto-grant the admin role to matching registrations.
	AdminPhone1 string `env:"ADMIN_PHONE1"`
	AdminPhone2 string `env:"ADMIN_PHONE2"`

	// RegistrationMaxPerDay caps successful registrations per IP per day.
	RegistrationMaxPerDay int `env:"REGISTRATION_MAX_PER_DAY, default=10"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
	SMS   SMSConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=account_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=no-reply@sharemyrevenue.example"`
}

type SMSConfig struct {
	GatewayURL string `env:"SMS_GATEWAY_URL"`
	APIKey     string `env:"SMS_API_KEY"`
	Sender     string `env:"SMS_SENDER, default=SMR"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
