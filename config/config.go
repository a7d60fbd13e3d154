package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Server    ServerConfig
	Remote    RemoteConfig
	Dashboard DashboardConfig
	Redis     RedisConfig
	Log       LogConfig
	Kafka     KafkaConfig
}

type ServerConfig struct {
	HTTPPort     int
	GRpcPort     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RemoteConfig describes the ticket-issuance service the dashboard drives.
type RemoteConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// The ticket service only accepts vendor ids 1..3 and customer ids 1..5.
const (
	MaxVendorAgents   = 3
	MaxCustomerAgents = 5
)

type DashboardConfig struct {
	PollInterval time.Duration
	// TimeUnit scales the configured release/retrieval rates (expressed in seconds by the service).
	TimeUnit        time.Duration
	VendorCount     int
	CustomerCount   int
	AutoScroll      bool
	ShutdownTimeout time.Duration
}

type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	Channel      string
}

type KafkaConfig struct {
	Brokers              []string
	ProducerRetryMax     int
	ProducerRequiredAcks int
	Enabled              bool
}

type LogConfig struct {
	Level    string
	Mode     string
	Encoding string
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("ENV", "development"),
		Server: ServerConfig{
			HTTPPort:     getEnvAsInt("SERVER_HTTP_PORT", 3000),
			GRpcPort:     getEnvAsInt("SERVER_GRPC_PORT", 50057),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Remote: RemoteConfig{
			BaseURL:        getEnv("REMOTE_API_URL", "http://localhost:8080/api"),
			RequestTimeout: getEnvAsDuration("REMOTE_REQUEST_TIMEOUT", 10*time.Second),
		},
		Dashboard: DashboardConfig{
			PollInterval:    getEnvAsDuration("DASHBOARD_POLL_INTERVAL", 1*time.Second),
			TimeUnit:        getEnvAsDuration("DASHBOARD_TIME_UNIT", 1*time.Second),
			VendorCount:     getEnvAsInt("DASHBOARD_VENDOR_COUNT", 3),
			CustomerCount:   getEnvAsInt("DASHBOARD_CUSTOMER_COUNT", 5),
			AutoScroll:      getEnvAsBool("DASHBOARD_AUTO_SCROLL", false),
			ShutdownTimeout: getEnvAsDuration("DASHBOARD_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Addr:         getEnv("REDIS_ADDR", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			Channel:      getEnv("REDIS_SNAPSHOT_CHANNEL", "dashboard:snapshot"),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Mode:     getEnv("LOG_MODE", "development"),
			Encoding: getEnv("LOG_ENCODING", "console"),
		},
		Kafka: KafkaConfig{
			Brokers:              getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ProducerRetryMax:     getEnvAsInt("KAFKA_PRODUCER_RETRY_MAX", 3),
			ProducerRequiredAcks: getEnvAsInt("KAFKA_PRODUCER_REQUIRED_ACKS", 1),
			Enabled:              getEnvAsBool("KAFKA_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}

	if c.Server.GRpcPort <= 0 || c.Server.GRpcPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRpcPort)
	}

	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote api url is required")
	}
	if _, err := url.ParseRequestURI(c.Remote.BaseURL); err != nil {
		return fmt.Errorf("invalid remote api url %q: %w", c.Remote.BaseURL, err)
	}

	if c.Dashboard.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Dashboard.PollInterval)
	}

	if c.Dashboard.TimeUnit <= 0 {
		return fmt.Errorf("time unit must be positive, got %s", c.Dashboard.TimeUnit)
	}

	if c.Dashboard.VendorCount <= 0 || c.Dashboard.VendorCount > MaxVendorAgents {
		return fmt.Errorf("vendor count must be between 1 and %d, got %d", MaxVendorAgents, c.Dashboard.VendorCount)
	}

	if c.Dashboard.CustomerCount <= 0 || c.Dashboard.CustomerCount > MaxCustomerAgents {
		return fmt.Errorf("customer count must be between 1 and %d, got %d", MaxCustomerAgents, c.Dashboard.CustomerCount)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	// Split by comma
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
