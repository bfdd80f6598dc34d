package scrape

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VenueConfig selects which adapter handles a venue and where it fetches
// from. Supplied as static configuration; the parser name is dispatched over
// a closed set of implementations, never loaded dynamically.
type VenueConfig struct {
	ID            string `yaml:"id"`
	URL           string `yaml:"url"`
	Parser        string `yaml:"parser"`
	Render        string `yaml:"render"`          // "" (plain HTTP) or "browser"
	DetailBaseURL string `yaml:"detail_base_url"` // base for per-vendor detail links, if the site uses them
}

// Config is the venue configuration file.
type Config struct {
	Venues []VenueConfig `yaml:"venues"`
}

// LoadConfig reads and validates the venue configuration YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse venue config: %w", err)
	}
	if len(cfg.Venues) == 0 {
		return nil, fmt.Errorf("venue config %s lists no venues", path)
	}
	for i, v := range cfg.Venues {
		if v.ID == "" || v.URL == "" || v.Parser == "" {
			return nil, fmt.Errorf("venue config entry %d: id, url and parser are required", i)
		}
	}
	return &cfg, nil
}
