// internal/workers/projection/export-workbook/config.go
package exportworkbook

import "time"

type Config struct {
	Timeout time.Duration
	// MaxBytes bounds the encoded workbook so it fits in a process variable.
	MaxBytes int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  15 * time.Second,
		MaxBytes: 2 << 20,
	}
}
