package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host" json:"host"`
	Port            int           `mapstructure:"port" yaml:"port" json:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DatabaseConfig represents the travel-sample database connection
type DatabaseConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	User            string `mapstructure:"user" yaml:"user" json:"user"`
	Password        string `mapstructure:"password" yaml:"password" json:"password"`
	Name            string `mapstructure:"name" yaml:"name" json:"name"`
	SSLMode         string `mapstructure:"ssl_mode" yaml:"ssl_mode" json:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime" json:"conn_max_lifetime"` // seconds
}

// DSN renders the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig represents the hotel search cache backend
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Address  string        `mapstructure:"address" yaml:"address" json:"address"`
	Password string        `mapstructure:"password" yaml:"password" json:"password"`
	DB       int           `mapstructure:"db" yaml:"db" json:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"`
}

// JWTConfig represents token signing configuration
type JWTConfig struct {
	Secret          string `mapstructure:"secret" yaml:"secret" json:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours" yaml:"expiration_hours" json:"expiration_hours"`
}

// KafkaConfig represents the optional booking event stream
type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers" yaml:"brokers" json:"brokers"`
	EnableEvents bool     `mapstructure:"enable_events" yaml:"enable_events" json:"enable_events"`
	BookingTopic string   `mapstructure:"booking_topic" yaml:"booking_topic" json:"booking_topic"`
}

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server" json:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database" json:"database"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis" json:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt" yaml:"jwt" json:"jwt"`
	Kafka    KafkaConfig    `mapstructure:"kafka" yaml:"kafka" json:"kafka"`
	LogLevel string         `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
}

// LoadConfig loads the application configuration from config.yaml and
// TRAVEL_-prefixed environment variables, with defaults suitable for a
// local demo deployment.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "travel")
	v.SetDefault("database.password", "travel")
	v.SetDefault("database.name", "travel_sample")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 5*time.Minute)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.enable_events", false)
	v.SetDefault("kafka.booking_topic", "travel.bookings")

	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/travelsample")

	v.SetEnvPrefix("TRAVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; only a malformed file is fatal
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must be set (TRAVEL_JWT_SECRET)")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("jwt expiration must be positive")
	}
	if c.Kafka.EnableEvents && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka events enabled but no brokers configured")
	}
	return nil
}
