package calculateprojection

import (
	"fmt"
	"time"

	"wind-workers/internal/common/config"
	"wind-workers/internal/windfarm/engine"
)

type Config struct {
	Enabled       bool           `mapstructure:"enabled"`
	MaxJobsActive int            `mapstructure:"max_jobs_active"`
	Timeout       time.Duration  `mapstructure:"timeout"`
	Formula       engine.Formula `mapstructure:"formula"`
	CacheTTL      time.Duration  `mapstructure:"cache_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		Formula:       engine.FormulaEmpirical,
		CacheTTL:      time.Hour,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if _, err := engine.ParseFormula(string(c.Formula)); err != nil {
		return err
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	wcfg := config.GetWorkerConfig(appConfig, TaskType)
	cfg.Enabled = wcfg.Enabled
	cfg.MaxJobsActive = wcfg.MaxJobsActive
	cfg.Timeout = config.GetDuration(wcfg.Timeout)
	if appConfig.Engine.Formula != "" {
		cfg.Formula = engine.Formula(appConfig.Engine.Formula)
	}
	if appConfig.Redis.CacheTTL > 0 {
		cfg.CacheTTL = time.Duration(appConfig.Redis.CacheTTL) * time.Second
	}
	return cfg
}
