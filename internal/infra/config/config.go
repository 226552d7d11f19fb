package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	ImagesFS = "fs"
	ImagesS3 = "s3"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env              string
	HTTPAddr         string
	StoreMode        string
	MongoURI         string
	MongoDB          string
	ListingsFixtures string
	GeoIPEndpoint    string
	GeoIPTimeout     time.Duration
	NearYouLimit     int
	JWTSecret        string
	SessionTTL       time.Duration
	CookieSecure     bool
	ImagesMode       string
	StaticImgDir     string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool
	S3Mirror         bool
	KafkaBrokers     []string
	KafkaTopicPrefix string
	KafkaTimeout     time.Duration
	FluentEnabled    bool
	FluentHost       string
	FluentPort       int
	FluentTag        string
}

// Load reads an optional .env file and then parses configuration from the
// current environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(getEnv("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":5000"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "roomies"),
		ListingsFixtures: os.Getenv("LISTINGS_FIXTURES"),
		GeoIPEndpoint:    getEnv("GEOIP_ENDPOINT", "http://ip-api.com/json"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		ImagesMode:       strings.ToLower(getEnv("IMAGES_MODE", ImagesFS)),
		StaticImgDir:     getEnv("STATIC_IMG_DIR", "static/img"),
		S3Endpoint:       getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "roomies-img"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		FluentHost:       getEnv("FLUENTBIT_HOST", "127.0.0.1"),
		FluentTag:        getEnv("FLUENTBIT_TAG", "roomies"),
	}
	defaultStore := StoreMemory
	if cfg.MongoURI != "" {
		defaultStore = StoreMongo
	}
	cfg.StoreMode = strings.ToLower(getEnv("STORE_MODE", defaultStore))

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.GeoIPTimeout, err = parseDurationEnv("GEOIP_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.KafkaTimeout, err = parseDurationEnv("KAFKA_PUBLISH_TIMEOUT", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.NearYouLimit, err = parseIntEnv("NEAR_YOU_LIMIT", 5); err != nil {
		return Config{}, err
	}
	if cfg.FluentPort, err = parseIntEnv("FLUENTBIT_PORT", 24224); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = parseBoolEnv("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.S3Mirror, err = parseBoolEnv("S3_MIRROR", false); err != nil {
		return Config{}, err
	}
	if cfg.FluentEnabled, err = parseBoolEnv("FLUENTBIT_ENABLED", false); err != nil {
		return Config{}, err
	}

	switch cfg.StoreMode {
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_MODE=%s", StoreMongo)
		}
	case StoreMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORE_MODE %q", cfg.StoreMode)
	}
	switch cfg.ImagesMode {
	case ImagesFS, ImagesS3:
	default:
		return Config{}, fmt.Errorf("invalid IMAGES_MODE %q", cfg.ImagesMode)
	}
	if cfg.NearYouLimit < 1 {
		return Config{}, fmt.Errorf("NEAR_YOU_LIMIT must be positive, got %d", cfg.NearYouLimit)
	}
	if cfg.JWTSecret == "" {
		if cfg.Env != "dev" && cfg.Env != "local" && cfg.Env != "test" {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = "roomies-dev-secret"
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
