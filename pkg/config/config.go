package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	AuthProvider            string
	JWTSecret               string
	JWTExpiry               int64
	FirebaseProject         string
	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string

	MessageStore    string
	SQLitePath      string
	MetadataBackend string
	FixturePath     string

	RedisAddr        string
	KafkaBrokers     []string
	KafkaResultTopic string
	KafkaGroupID     string

	MessageTTL          time.Duration
	SweepInterval       time.Duration
	EligibilityCacheTTL time.Duration
	MetadataTimeout     time.Duration
	PollInterval        time.Duration

	InternalToken string
}

// MaxEligibilityCacheTTL bounds how long a roster decision may be reused.
const MaxEligibilityCacheTTL = 30 * time.Second

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		AuthProvider:            getEnv("AUTH_PROVIDER", "jwt"),
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:               getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		FirebaseProject:         getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		MessageStore:    getEnv("MESSAGE_STORE", "memory"),
		SQLitePath:      getEnv("SQLITE_PATH", "matchchat.db"),
		MetadataBackend: getEnv("METADATA_BACKEND", "fixture"),
		FixturePath:     getEnv("FIXTURE_PATH", "fixtures.yaml"),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		KafkaBrokers:     getEnvAsList("KAFKA_BROKERS"),
		KafkaResultTopic: getEnv("KAFKA_RESULT_TOPIC", "match-results"),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "matchchat"),

		MessageTTL:          getEnvAsDuration("MESSAGE_TTL", 6*time.Hour),
		SweepInterval:       getEnvAsDuration("SWEEP_INTERVAL", time.Hour),
		EligibilityCacheTTL: getEnvAsDuration("ELIGIBILITY_CACHE_TTL", MaxEligibilityCacheTTL),
		MetadataTimeout:     getEnvAsDuration("METADATA_TIMEOUT", 2*time.Second),
		PollInterval:        getEnvAsDuration("POLL_INTERVAL", 4*time.Second),

		InternalToken: getEnv("INTERNAL_TOKEN", ""),
	}

	if config.EligibilityCacheTTL > MaxEligibilityCacheTTL {
		config.EligibilityCacheTTL = MaxEligibilityCacheTTL
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
