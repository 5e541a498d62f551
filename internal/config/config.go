package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Identity  IdentityConfig
	RateLimit RateLimitConfig
	Archive   ArchiveConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	BaseURL      string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IdentityConfig drives credential-to-username resolution. SuperUser is the
// literal username that is admin everywhere.
type IdentityConfig struct {
	SuperUser    string
	TokenCookie  string
	JWTSecret    string
	OIDCIssuer   string
	OIDCClientID string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// ArchiveConfig configures the optional object-storage archive written on
// document deletion. Disabled when Endpoint is empty.
type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_BASE_URL", "http://localhost:3000")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "xytext")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("IDENTITY_SUPER_USER", "admin")
	viper.SetDefault("IDENTITY_TOKEN_COOKIE", "x_access_token")
	viper.SetDefault("RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("ARCHIVE_BUCKET", "xytext-archive")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			BaseURL:      viper.GetString("SERVER_BASE_URL"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		Identity: IdentityConfig{
			SuperUser:    viper.GetString("IDENTITY_SUPER_USER"),
			TokenCookie:  viper.GetString("IDENTITY_TOKEN_COOKIE"),
			JWTSecret:    viper.GetString("IDENTITY_JWT_SECRET"),
			OIDCIssuer:   viper.GetString("IDENTITY_OIDC_ISSUER"),
			OIDCClientID: viper.GetString("IDENTITY_OIDC_CLIENT_ID"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Archive: ArchiveConfig{
			Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
			AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
			SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
			UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			Bucket:    viper.GetString("ARCHIVE_BUCKET"),
		},
	}

	return cfg, nil
}
