// internal/workers/catalog/compare-districts/config.go
package comparedistricts

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
