package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Grpc     GrpcConfig     `mapstructure:"grpc"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Events   EventsConfig   `mapstructure:"events"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	OTel     OTelConfig     `mapstructure:"otel"`

	// Timezone the agenda and dashboard use to decide what "today" is.
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout_seconds"`
	WriteTimeout int      `mapstructure:"write_timeout_seconds"`
	IdleTimeout  int      `mapstructure:"idle_timeout_seconds"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

type GrpcConfig struct {
	Port string `mapstructure:"port"`
}

// RemoteConfig points at the tutoring REST API.
type RemoteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            string `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time_seconds"`
}

// RedisConfig holds the session token store. An empty Addr keeps the token in memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EventsConfig selects the activity event transport: "nats", "kafka" or "" for none.
type EventsConfig struct {
	Driver string `mapstructure:"driver"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type OTelConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

func (c RemoteConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith reads config.<ENV>.yaml into v and then applies environment overrides.
func LoadWith(v *viper.Viper) (*Config, error) {
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	v.SetConfigType("yaml")
	v.AddConfigPath("/configs")   // Kubernetes mount
	v.AddConfigPath("./configs")  // repo root
	v.AddConfigPath("../configs") // cmd/
	v.AddConfigPath("../../configs")

	v.SetDefault("server.port", "8080")
	v.SetDefault("grpc.port", "9090")
	v.SetDefault("remote.base_url", "http://localhost:3000")
	v.SetDefault("remote.timeout_seconds", 10)
	v.SetDefault("nats.subject", "cantinho.activity")
	v.SetDefault("kafka.topic", "cantinho.activity")
	v.SetDefault("timezone", "America/Sao_Paulo")

	// Config file is optional - continue with ENV variables
	if err := v.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "No config file found (will use ENV variables): %v\n", err)
	}

	v.AutomaticEnv()

	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("remote.base_url", "API_BASE_URL")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("otel.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Env == "" {
		config.Env = env
	}

	return &config, nil
}
