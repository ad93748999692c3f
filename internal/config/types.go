package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Listen is the address of the operational HTTP server (API + metrics).
	Listen string `yaml:"listen"`

	// DBPath locates the dead-letter database. Empty disables persistence
	// of rejected lines.
	DBPath string `yaml:"db_path"`

	Workers   int           `yaml:"workers"`
	QueueSize int           `yaml:"queue_size"`
	Retention time.Duration `yaml:"retention"` // how long dead letters are kept

	GeoIP    GeoIPConfig `yaml:"geoip"`
	Services []Service   `yaml:"services"`
}

// GeoIPConfig points at optional MaxMind databases. Empty paths disable
// the corresponding lookup.
type GeoIPConfig struct {
	CityPath string `yaml:"city_path"`
	ASNPath  string `yaml:"asn_path"`
}

// Service describes one log source to follow.
type Service struct {
	Name     string `yaml:"name"`
	Format   string `yaml:"format"`             // "combined" or "bogus"
	Path     string `yaml:"path"`               // file path or glob pattern
	Disabled bool   `yaml:"disabled,omitempty"` // zero value keeps the service on
}
