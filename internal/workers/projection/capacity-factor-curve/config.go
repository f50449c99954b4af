// internal/workers/projection/capacity-factor-curve/config.go
package capacityfactorcurve

import (
	"time"

	"wind-workers/internal/windfarm/engine"
)

type Config struct {
	Timeout   time.Duration
	Formula   engine.Formula
	MaxPoints int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   5 * time.Second,
		Formula:   engine.FormulaEmpirical,
		MaxPoints: 100,
	}
}
