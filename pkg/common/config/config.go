package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Batch sources
	ClinicalPath    string
	PerformancePath string
	SignalPath      string
	SourceDelimiter string

	// Outputs
	IntegratedPath string
	PatientDir     string
	ArtifactDir    string

	// Catalog
	CatalogPath string

	// Model
	ModelEpochs       int
	ModelLearningRate float64

	// Database
	RunLogEnabled    bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	FeatureCacheEnabled bool
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	FeatureCacheTTL     time.Duration

	// Kafka
	EventsEnabled bool
	KafkaBrokers  []string
	KafkaTopic    string

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8090"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 4*1024*1024)),

		ClinicalPath:    getEnv("CLINICAL_SOURCE_PATH", "data/patient_info.csv"),
		PerformancePath: getEnv("PERFORMANCE_SOURCE_PATH", "data/CPT_II_ConnersContinuousPerformanceTest.csv"),
		SignalPath:      getEnv("SIGNAL_SOURCE_PATH", "data/features.csv"),
		SourceDelimiter: getEnv("SOURCE_DELIMITER", ";"),

		IntegratedPath: getEnv("INTEGRATED_OUTPUT_PATH", "data/valid_patients_processed.csv"),
		PatientDir:     getEnv("PATIENT_OUTPUT_DIR", "data/patient_files"),
		ArtifactDir:    getEnv("MODEL_ARTIFACT_DIR", "artifacts"),

		CatalogPath: getEnv("FEATURE_CATALOG_PATH", ""),

		ModelEpochs:       getIntEnv("MODEL_EPOCHS", 500),
		ModelLearningRate: getFloatEnv("MODEL_LEARNING_RATE", 0.1),

		RunLogEnabled:    getBoolEnv("RUN_LOG_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "neuroscreen"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "neuroscreen123"),
		PostgresDB:       getEnv("POSTGRES_DB", "neuroscreen"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		FeatureCacheEnabled: getBoolEnv("FEATURE_CACHE_ENABLED", false),
		RedisHost:           getEnv("REDIS_HOST", "localhost"),
		RedisPort:           getEnv("REDIS_PORT", "6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getIntEnv("REDIS_DB", 0),
		FeatureCacheTTL:     getDuration("FEATURE_CACHE_TTL", 24*time.Hour),

		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "neuroscreen-pipeline"),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
