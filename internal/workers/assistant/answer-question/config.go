// internal/workers/assistant/answer-question/config.go
package answerquestion

import (
	"fmt"
	"time"

	"wind-workers/internal/common/config"
)

type Config struct {
	GenAIBaseURL   string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	MaxTokens      int
	Temperature    float64
	MaxQuestionLen int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		MaxRetries:     2,
		RetryDelay:     100 * time.Millisecond,
		MaxTokens:      500,
		Temperature:    0.7,
		MaxQuestionLen: 2000,
	}
}

// ConfigFrom reads the genai section of the application config.
func ConfigFrom(appConfig *config.Config) *Config {
	cfg := LoadConfig()
	genai := appConfig.APIs.GenAI
	cfg.GenAIBaseURL = genai.BaseURL
	cfg.APIKey = genai.APIKey
	if genai.Timeout > 0 {
		cfg.Timeout = config.GetDuration(genai.Timeout)
	}
	if genai.MaxRetries > 0 {
		cfg.MaxRetries = genai.MaxRetries
	}
	if genai.MaxTokens > 0 {
		cfg.MaxTokens = genai.MaxTokens
	}
	if genai.Temperature > 0 {
		cfg.Temperature = genai.Temperature
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.GenAIBaseURL == "" {
		return fmt.Errorf("genai base_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2]")
	}
	return nil
}
