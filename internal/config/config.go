package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL    string
	RedisURL       string
	LogLevel       string
	Debug          bool
	ServiceName    string
	Environment    string
	ServerPort     string
	JwtSecret      string
	TokenTTL       time.Duration
	AuthServiceURL string
	CacheTTL       time.Duration
	WorkerCount    int
	BatchSize      int

	PhotoBucket     string
	PhotoRegion     string
	PhotoAccessKey  string
	PhotoSecretKey  string
	PhotoEndpoint   string
	PhotoPublicBase string
}

func LoadConfig() (*Config, error) {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		return nil, errors.New("AUTH_SERVICE_URL is required")
	}

	photoBucket := os.Getenv("PHOTO_BUCKET")
	if photoBucket == "" {
		photoBucket = "customer-photos"
	}

	photoPublicBase := os.Getenv("PHOTO_PUBLIC_BASE_URL")
	if photoPublicBase == "" {
		return nil, errors.New("PHOTO_PUBLIC_BASE_URL is required")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	debug := os.Getenv("DEBUG")
	if debug == "" {
		debug = "false"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "customer-svc"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	tokenTTL := 12 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			tokenTTL = parsed
		}
	}

	cacheTTL := 24 * time.Hour
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cacheTTL = parsed
		}
	}

	workerCount := 4 // default value
	if wc := os.Getenv("WORKER_COUNT"); wc != "" {
		if parsed, err := strconv.Atoi(wc); err == nil {
			workerCount = parsed
		}
	}

	batchSize := 100 // default value
	if bs := os.Getenv("BATCH_SIZE"); bs != "" {
		if parsed, err := strconv.Atoi(bs); err == nil {
			batchSize = parsed
		}
	}

	return &Config{
		DatabaseURL:     databaseURL,
		RedisURL:        os.Getenv("REDIS_URL"),
		LogLevel:        logLevel,
		Debug:           debug == "true",
		ServiceName:     serviceName,
		Environment:     environment,
		ServerPort:      port,
		JwtSecret:       jwtSecret,
		TokenTTL:        tokenTTL,
		AuthServiceURL:  authServiceURL,
		CacheTTL:        cacheTTL,
		WorkerCount:     workerCount,
		BatchSize:       batchSize,
		PhotoBucket:     photoBucket,
		PhotoRegion:     os.Getenv("PHOTO_REGION"),
		PhotoAccessKey:  os.Getenv("PHOTO_ACCESS_KEY"),
		PhotoSecretKey:  os.Getenv("PHOTO_SECRET_KEY"),
		PhotoEndpoint:   os.Getenv("PHOTO_ENDPOINT"),
		PhotoPublicBase: photoPublicBase,
	}, nil
}
