// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// APIS_GENAI_API_KEY overrides apis.genai.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// config.<env>.yaml is optional
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset variables expand to "" so optional sections stay disabled
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIs.GenAI.APIKey == "" {
		if val := os.Getenv("GENAI_API_KEY"); val != "" {
			cfg.APIs.GenAI.APIKey = val
		}
	}
	if cfg.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Redis.Password = val
		}
	}
	if cfg.Feedback.Recipient == "" {
		if val := os.Getenv("FEEDBACK_RECIPIENT"); val != "" {
			cfg.Feedback.Recipient = val
		}
	}
	if cfg.Integrations.AWS.Region == "" {
		if val := os.Getenv("AWS_REGION"); val != "" {
			cfg.Integrations.AWS.Region = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "wind-workers"
	}
	if cfg.App.HTTPPort == 0 {
		cfg.App.HTTPPort = 8080
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Redis.CacheTTL == 0 {
		cfg.Redis.CacheTTL = 3600
	}

	if cfg.Engine.Formula == "" {
		cfg.Engine.Formula = "empirical"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Observability.SampleRatio == 0 {
		cfg.Observability.SampleRatio = 1.0
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "ap-south-1"
	}
	if cfg.Feedback.SubjectPrefix == "" {
		cfg.Feedback.SubjectPrefix = "[Wind Dashboard Feedback]"
	}
	if cfg.Feedback.MaxMessageLen == 0 {
		cfg.Feedback.MaxMessageLen = 5000
	}

	if cfg.APIs.GenAI.Timeout == 0 {
		cfg.APIs.GenAI.Timeout = 30000
	}
	if cfg.APIs.GenAI.MaxTokens == 0 {
		cfg.APIs.GenAI.MaxTokens = 500
	}
	if cfg.APIs.GenAI.Temperature == 0 {
		cfg.APIs.GenAI.Temperature = 0.7
	}

	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/activity-registry.json"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	switch cfg.Engine.Formula {
	case "empirical", "rated-speed":
	default:
		return fmt.Errorf("engine.formula must be empirical or rated-speed, got %q", cfg.Engine.Formula)
	}

	if cfg.Integrations.AWS.SES.Enabled {
		if cfg.Integrations.AWS.SES.FromEmail == "" {
			return fmt.Errorf("integrations.aws.ses.from_email is required when SES is enabled")
		}
		if cfg.Feedback.Recipient == "" {
			return fmt.Errorf("feedback.recipient is required when SES is enabled")
		}
	}

	if cfg.Integrations.AWS.SNS.Enabled && cfg.Integrations.AWS.SNS.TopicARN == "" {
		return fmt.Errorf("integrations.aws.sns.topic_arn is required when SNS is enabled")
	}

	if cfg.Observability.SampleRatio < 0 || cfg.Observability.SampleRatio > 1 {
		return fmt.Errorf("observability.sample_ratio must be within [0, 1]")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
