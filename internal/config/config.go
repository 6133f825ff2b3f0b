package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	LogLevel    string
	LogFormat   string

	Telemetry TelemetryConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	RunMigrations     bool

	NodeID int64

	Numbering NumberingConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Document  DocumentConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

// TelemetryConfig controls OTLP export and query logging.
type TelemetryConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
	// SlowQuery is the duration above which SQL statements log at warn.
	SlowQuery time.Duration
}

type NumberingConfig struct {
	// Backend is one of database, redis or none.
	Backend string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	// Backend is one of local or minio.
	Backend       string
	LocalDir      string
	PublicBaseURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool
	MinioRegion    string
}

// RateLimitConfig throttles ad hoc renders per client. A zero rate disables
// limiting.
type RateLimitConfig struct {
	RenderRate  float64
	RenderBurst int
}

type SchedulerConfig struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

type DocumentConfig struct {
	ImageTimeout     time.Duration
	ImageMaxBytes    int64
	ImageConcurrency int
}

const (
	NumberingDatabase = "database"
	NumberingRedis    = "redis"
	NumberingNone     = "none"

	StorageLocal = "local"
	StorageMinio = "minio"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "officecrm"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		LogLevel:          strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getenv("LOG_FORMAT", "json")),
		Telemetry: TelemetryConfig{
			Enabled:       getenvBool("OTEL_ENABLED", false),
			Endpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317"))),
			Protocol:      otlpProtocol(),
			SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
			SlowQuery:     getenvDuration("DATABASE_SLOW_QUERY", 200*time.Millisecond),
		},
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "officecrm"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "officecrm.db"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 20)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
		RunMigrations:     getenvBool("DATABASE_RUN_MIGRATIONS", true),
		NodeID:            getenvInt64("SNOWFLAKE_NODE", 1),
		Numbering: NumberingConfig{
			Backend: normalizeNumberingBackend(getenv("NUMBERING_BACKEND", NumberingDatabase)),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       int(getenvInt64("REDIS_DB", 0)),
		},
		Storage: StorageConfig{
			Backend:        strings.ToLower(getenv("STORAGE_BACKEND", StorageLocal)),
			LocalDir:       getenv("STORAGE_LOCAL_DIR", "public"),
			PublicBaseURL:  strings.TrimRight(getenv("STORAGE_PUBLIC_BASE_URL", "/downloads"), "/"),
			MinioEndpoint:  strings.TrimSpace(getenv("MINIO_URL", "localhost:9000")),
			MinioAccessKey: strings.TrimSpace(getenv("MINIO_ACCESS_KEY", "")),
			MinioSecretKey: strings.TrimSpace(getenv("MINIO_SECRET_KEY", "")),
			MinioBucket:    getenv("MINIO_BUCKET", "documents"),
			MinioSecure:    getenvBool("MINIO_SECURE", false),
			MinioRegion:    getenv("MINIO_LOCATION", "us-east-1"),
		},
		Document: DocumentConfig{
			ImageTimeout:     getenvDuration("DOCUMENT_IMAGE_TIMEOUT", 2*time.Second),
			ImageMaxBytes:    getenvInt64("DOCUMENT_IMAGE_MAX_BYTES", 5<<20),
			ImageConcurrency: int(getenvInt64("DOCUMENT_IMAGE_CONCURRENCY", 8)),
		},
		RateLimit: RateLimitConfig{
			RenderRate:  getenvFloat("RENDER_RATE_LIMIT", 0),
			RenderBurst: int(getenvInt64("RENDER_RATE_BURST", 10)),
		},
		Scheduler: SchedulerConfig{
			Enabled:   getenvBool("SCHEDULER_ENABLED", true),
			Interval:  getenvDuration("SCHEDULER_INTERVAL", time.Minute),
			BatchSize: int(getenvInt64("SCHEDULER_BATCH_SIZE", 100)),
		},
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// otlpProtocol prefers the traces specific protocol variable.
func otlpProtocol() string {
	protocol := getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	protocol = getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", protocol)
	return strings.ToLower(strings.TrimSpace(protocol))
}

func normalizeNumberingBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case NumberingRedis:
		return NumberingRedis
	case NumberingNone:
		return NumberingNone
	default:
		return NumberingDatabase
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
