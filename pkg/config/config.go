package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"StockDash/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string      `yaml:"environment" default:"development"`
	Server      Server      `yaml:"server"`
	Metrics     Metrics     `yaml:"metrics"`
	Logging     Logging     `yaml:"logging"`
	Marketstack Marketstack `yaml:"marketstack"`
	Fetch       Fetch       `yaml:"fetch"`
	Chart       Chart       `yaml:"chart"`
	Session     Session     `yaml:"session"`
	Cache       Cache       `yaml:"cache"`
	Kafka       Kafka       `yaml:"kafka"`
}

type Server struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type Logging struct {
	Level     string           `yaml:"level" default:"info"`
	Format    string           `yaml:"format" default:"console"`
	Output    string           `yaml:"output" default:"stdout"`
	Collector LoggingCollector `yaml:"collector"`
}

// LoggingCollector ships aggregated error logs to Kafka. Needs kafka.brokers.
type LoggingCollector struct {
	Enabled   bool          `yaml:"enabled"`
	Topic     string        `yaml:"topic" default:"stockdash.logs"`
	Interval  time.Duration `yaml:"interval" default:"30s"`
	Threshold int           `yaml:"threshold" default:"100"`
}

type Marketstack struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url" default:"http://api.marketstack.com"`
	TickersPath  string        `yaml:"tickers_path" default:"/v1/tickers"`
	EODPath      string        `yaml:"eod_path" default:"/v2/eod"`
	CatalogLimit int           `yaml:"catalog_limit" default:"100"`
	EODLimit     int           `yaml:"eod_limit" default:"1000"`
	Timeout      time.Duration `yaml:"timeout" default:"30s"`
}

type Fetch struct {
	// DispatchDelay holds the batch in the pending state before the fan-out.
	DispatchDelay time.Duration `yaml:"dispatch_delay"`
	SubmitBurst   float64       `yaml:"submit_burst" default:"5"`
	SubmitRefill  float64       `yaml:"submit_refill_per_sec" default:"0.5"`
}

type Chart struct {
	DateLayout string   `yaml:"date_layout" default:"1/2/2006"`
	Palette    []string `yaml:"palette"`
	Width      int      `yaml:"width" default:"1024"`
	Height     int      `yaml:"height" default:"400"`
}

type Session struct {
	IdleTTL   time.Duration `yaml:"idle_ttl" default:"30m"`
	SweepCron string        `yaml:"sweep_cron" default:"@every 5m"`
}

type Cache struct {
	CatalogTTL    time.Duration `yaml:"catalog_ttl" default:"1h"`
	MemoryMaxSize int           `yaml:"memory_max_size" default:"64"`
	Redis         Redis         `yaml:"redis"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"stockdash"`
}

type Kafka struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"stockdash.batches"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"gzip"`
	Async        bool          `yaml:"async"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
}

// DefaultPalette is used when chart.palette is empty.
var DefaultPalette = []string{
	"#173A5E", "#00A3E0", "#EB6B4C", "#E9AB22", "#48B078",
	"#AA65D6", "#4FA3E3", "#F28E2B", "#76B7B2", "#9C755F",
}

// Load reads a YAML file and fills unset fields with defaults. A missing file
// is not an error: the service runs on defaults plus environment.
func Load(path string) (*Config, error) {
	c := &Config{}
	// Defaults first so explicit false/zero values in the file survive.
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(b) > 0 {
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if len(c.Chart.Palette) == 0 {
		c.Chart.Palette = append([]string(nil), DefaultPalette...)
	}

	return c, nil
}

// LoadWithEnv loads .env (if present) and the YAML file, applies environment
// overrides and validates the result.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MARKETSTACK_API_KEY"); v != "" {
		c.Marketstack.APIKey = v
	}
	if v := os.Getenv("MARKETSTACK_BASE_URL"); v != "" {
		c.Marketstack.BaseURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Marketstack.APIKey == "" {
		return fmt.Errorf("marketstack.api_key is required")
	}
	if c.Marketstack.BaseURL == "" {
		return fmt.Errorf("marketstack.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("session.idle_ttl must be positive")
	}
	if len(c.Chart.Palette) == 0 {
		return fmt.Errorf("chart.palette cannot be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.Logging.Collector.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("logging.collector needs kafka.brokers")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr required when redis is enabled")
	}
	return nil
}
