package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

const (
	DefaultListen    = ":9102"
	DefaultWorkers   = 4
	DefaultQueueSize = 1000
	DefaultRetention = 7 * 24 * time.Hour
)

// Load reads, parses, and validates configuration from the provided path.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyEnv(c *Config) {
	c.Listen = getEnv("ALP_LISTEN", c.Listen)
	c.DBPath = getEnv("ALP_DB_PATH", c.DBPath)
	c.Workers = getEnvInt("ALP_WORKERS", c.Workers)
	c.QueueSize = getEnvInt("ALP_QUEUE_SIZE", c.QueueSize)
	c.GeoIP.CityPath = getEnv("ALP_GEOIP_CITY_PATH", c.GeoIP.CityPath)
	c.GeoIP.ASNPath = getEnv("ALP_GEOIP_ASN_PATH", c.GeoIP.ASNPath)
}

func validate(c *Config) error {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.Retention <= 0 {
		c.Retention = DefaultRetention
	}

	if len(c.Services) == 0 {
		return fmt.Errorf("at least one service is required")
	}

	known := make(map[string]bool)
	for _, f := range accesslog.NewRegistry().Formats() {
		known[string(f)] = true
	}

	seen := make(map[string]bool)
	for i := range c.Services {
		s := &c.Services[i]
		if s.Name == "" {
			return fmt.Errorf("service at index %d is missing name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("service %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if s.Path == "" {
			return fmt.Errorf("service %q: path is required", s.Name)
		}
		if s.Format == "" {
			s.Format = string(accesslog.Combined)
		}
		if !known[s.Format] {
			return fmt.Errorf("service %q: unknown format %q", s.Name, s.Format)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
