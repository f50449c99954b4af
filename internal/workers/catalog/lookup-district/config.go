// internal/workers/catalog/lookup-district/config.go
package lookupdistrict

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
