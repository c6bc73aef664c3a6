package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreBackendJSON     = "json"
	StoreBackendPostgres = "postgres"

	LockBackendLocal = "local"
	LockBackendRedis = "redis"
	LockBackendNone  = "none"

	ImageStorageDisk  = "disk"
	ImageStorageMinio = "minio"
)

type EnvConfig struct {
	HTTP struct {
		Port      string
		PublicDir string
	}
	Store struct {
		Backend    string
		CraftsFile string
		Lock       string
	}
	Upload struct {
		Storage  string
		ImageDir string
		MaxBytes int64
	}
	Postgres struct {
		HOST     string
		Database string
		Username string
		Password string
		Port     string
		SSLMode  string
	}
	CORS struct {
		AllowDomains string
	}
	Redis struct {
		Password  string
		Database  int
		RedisHost string
		RedisPort string
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Minio struct {
		Endpoint     string
		RootUser     string
		RootPassword string
		Bucket       string
		UseSSL       bool
	}
	Grafana struct {
		OTLPEndpoint string
		Insecure     bool
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	config.HTTP.Port = os.Getenv("HTTP_PORT")
	if config.HTTP.Port == "" {
		config.HTTP.Port = "8080"
	}
	config.HTTP.PublicDir = os.Getenv("PUBLIC_DIR")

	// Craft store
	config.Store.Backend = strings.ToLower(os.Getenv("STORE_BACKEND"))
	if config.Store.Backend == "" {
		config.Store.Backend = StoreBackendJSON
	}
	config.Store.CraftsFile = os.Getenv("CRAFTS_FILE")
	if config.Store.CraftsFile == "" {
		config.Store.CraftsFile = "crafts.json"
	}
	config.Store.Lock = strings.ToLower(os.Getenv("LOCK_BACKEND"))
	if config.Store.Lock == "" {
		config.Store.Lock = LockBackendLocal
	}

	// Image uploads
	config.Upload.Storage = strings.ToLower(os.Getenv("IMAGE_STORAGE"))
	if config.Upload.Storage == "" {
		config.Upload.Storage = ImageStorageDisk
	}
	config.Upload.ImageDir = os.Getenv("IMAGE_DIR")
	if config.Upload.ImageDir == "" {
		config.Upload.ImageDir = "public/images"
	}
	if val := os.Getenv("MAX_UPLOAD_BYTES"); val != "" {
		if maxBytes, err := strconv.ParseInt(val, 10, 64); err == nil && maxBytes > 0 {
			config.Upload.MaxBytes = maxBytes
		}
	}
	if config.Upload.MaxBytes == 0 {
		config.Upload.MaxBytes = 10 << 20 // 10MB
	}

	// Postgres
	config.Postgres.HOST = os.Getenv("PGPOOL_HOST")
	config.Postgres.Database = os.Getenv("PGPOOL_DB")
	config.Postgres.Username = os.Getenv("PGPOOL_USER")
	config.Postgres.Password = os.Getenv("PGPOOL_PASSWORD")
	config.Postgres.Port = os.Getenv("PGPOOL_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}
	config.Postgres.SSLMode = os.Getenv("PGPOOL_SSLMODE")
	if config.Postgres.SSLMode == "" {
		config.Postgres.SSLMode = "disable"
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	config.Redis.RedisHost = os.Getenv("REDIS_HOST")
	if config.Redis.RedisHost == "" {
		config.Redis.RedisHost = "localhost"
	}
	config.Redis.RedisPort = os.Getenv("REDIS_PORT")
	if config.Redis.RedisPort == "" {
		config.Redis.RedisPort = "6379"
	}

	// RabbitMQ is optional: change events are only published when a host is set
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "guest"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASSWORD")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "guest"
	}

	config.Minio.Endpoint = os.Getenv("MINIO_ENDPOINT")
	config.Minio.RootUser = os.Getenv("MINIO_ROOT_USER")
	config.Minio.RootPassword = os.Getenv("MINIO_ROOT_PASSWORD")
	config.Minio.Bucket = os.Getenv("MINIO_BUCKET")
	if config.Minio.Bucket == "" {
		config.Minio.Bucket = "craft-images"
	}
	config.Minio.UseSSL, _ = strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))

	// Grafana/OpenTelemetry. "none" or empty disables export.
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	switch {
	case strings.HasPrefix(grafanaEndpoint, "https://"):
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	case strings.HasPrefix(grafanaEndpoint, "http://"):
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
		config.Grafana.Insecure = true
	case grafanaEndpoint == "none":
		config.Grafana.OTLPEndpoint = ""
	default:
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "gau-craft-catalog"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	return &config
}

// Validate reports configuration combinations the service cannot start with.
func (c *EnvConfig) Validate() error {
	switch c.Store.Backend {
	case StoreBackendJSON, StoreBackendPostgres:
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}

	switch c.Store.Lock {
	case LockBackendLocal, LockBackendRedis, LockBackendNone:
	default:
		return fmt.Errorf("unsupported LOCK_BACKEND %q", c.Store.Lock)
	}

	switch c.Upload.Storage {
	case ImageStorageDisk, ImageStorageMinio:
	default:
		return fmt.Errorf("unsupported IMAGE_STORAGE %q", c.Upload.Storage)
	}

	if c.Store.Backend == StoreBackendPostgres && c.Postgres.HOST == "" {
		return fmt.Errorf("PGPOOL_HOST is required when STORE_BACKEND=%s", StoreBackendPostgres)
	}

	return nil
}

func (c *EnvConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Postgres.HOST, c.Postgres.Username, c.Postgres.Password, c.Postgres.Database, c.Postgres.Port, c.Postgres.SSLMode)
}
