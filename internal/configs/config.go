package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBconfig struct {
	URL      string
	MaxConns int
}

type MongoConfig struct {
	URI      string
	Database string
}

type RESTconfig struct {
	PORT           string
	PublicBaseURL  string
	AllowedOrigins []string
	SecureCookies  bool
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
}

type OAuthConfig struct {
	Enabled      bool
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type ElasticConfig struct {
	Enabled bool
	URL     string
	Index   string
}

type GeocodingConfig struct {
	Enabled   bool
	APIKey    string
	RateLimit float64
	Timeout   time.Duration
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole configuration of the service.
type AppConfig struct {
	AppName      string
	Database     DBconfig
	Mongo        MongoConfig
	Rest         RESTconfig
	Auth         AuthConfig
	OAuth        OAuthConfig
	RabbitMQ     RabbitMQConfig
	Elastic      ElasticConfig
	Geocoding    GeocodingConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig reads the configuration from the environment. A .env file is loaded first
// when present; values already set in the environment win.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: no .env file found (path: %v), using process environment.\n", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "landmark-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)

	cfg.Mongo.URI = os.Getenv("MONGO_URI")
	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}
	cfg.Mongo.Database = getEnvAsString("MONGO_DB", "landmarks")

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.Auth.AccessTokenTTL = getEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	cfg.Auth.ResetTokenTTL = getEnvAsDuration("RESET_TOKEN_TTL", 30*time.Minute)

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.PublicBaseURL = strings.TrimRight(getEnvAsString("PUBLIC_BASE_URL", "http://localhost:"+cfg.Rest.PORT), "/")
	cfg.Rest.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.Rest.SecureCookies = getEnvAsBool("SECURE_COOKIES", false)

	cfg.OAuth.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.OAuth.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.OAuth.RedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	cfg.OAuth.Enabled = cfg.OAuth.ClientID != "" && cfg.OAuth.ClientSecret != "" && cfg.OAuth.RedirectURL != ""

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.Enabled = cfg.RabbitMQ.URL != ""

	cfg.Elastic.URL = os.Getenv("ELASTICSEARCH_URL")
	cfg.Elastic.Enabled = cfg.Elastic.URL != ""
	cfg.Elastic.Index = getEnvAsString("ELASTICSEARCH_INDEX", "landmarks")

	cfg.Geocoding.APIKey = os.Getenv("GEOCODING_API_KEY")
	cfg.Geocoding.Enabled = cfg.Geocoding.APIKey != ""
	cfg.Geocoding.RateLimit = getEnvAsFloat("GEOCODING_RATE_LIMIT", 10)
	cfg.Geocoding.Timeout = getEnvAsDuration("GEOCODING_TIMEOUT", 5*time.Second)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: invalid integer for %s: %q, using default %d\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: invalid number for %s: %q, using default %v\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s: %q, using default %t\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		log.Printf("Warning: invalid duration for %s: %q, using default %s\n", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
