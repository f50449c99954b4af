package sendfeedback

import (
	"fmt"
	"time"

	"wind-workers/internal/common/config"
	"wind-workers/internal/common/validation"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FromEmail     string        `mapstructure:"from_email"`
	Recipient     string        `mapstructure:"recipient"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	MaxMessageLen int           `mapstructure:"max_message_length"`
	SNSTopicARN   string        `mapstructure:"sns_topic_arn"` // empty disables the notification
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		SubjectPrefix: "[Wind Dashboard Feedback]",
		MaxMessageLen: 5000,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if !validation.ValidateEmail(c.FromEmail) {
		return fmt.Errorf("from_email must be a valid address, got %q", c.FromEmail)
	}
	if !validation.ValidateEmail(c.Recipient) {
		return fmt.Errorf("recipient must be a valid address, got %q", c.Recipient)
	}
	if c.MaxMessageLen <= 0 {
		return fmt.Errorf("max_message_length must be positive")
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
	cfg.FromEmail = appConfig.Integrations.AWS.SES.FromEmail
	cfg.Recipient = appConfig.Feedback.Recipient
	if appConfig.Feedback.SubjectPrefix != "" {
		cfg.SubjectPrefix = appConfig.Feedback.SubjectPrefix
	}
	if appConfig.Feedback.MaxMessageLen > 0 {
		cfg.MaxMessageLen = appConfig.Feedback.MaxMessageLen
	}
	if appConfig.Integrations.AWS.SNS.Enabled {
		cfg.SNSTopicARN = appConfig.Integrations.AWS.SNS.TopicARN
	}
	return cfg
}
