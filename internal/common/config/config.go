// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Redis         RedisConfig             `mapstructure:"redis"`
	Engine        EngineConfig            `mapstructure:"engine"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Integrations  IntegrationConfig       `mapstructure:"integrations"`
	Feedback      FeedbackConfig          `mapstructure:"feedback"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Registry      RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPPort    int    `mapstructure:"http_port"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	DeployDir      string `mapstructure:"deploy_dir"`      // BPMN files deployed at startup; empty skips
}

// RedisConfig configures the optional projection cache. An empty address disables it.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// EngineConfig selects the capacity factor formula used when a request does not name one.
type EngineConfig struct {
	Formula string `mapstructure:"formula"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// IntegrationConfig holds settings for AWS delivery channels.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// FeedbackConfig holds settings for the send-feedback worker.
type FeedbackConfig struct {
	Recipient     string `mapstructure:"recipient"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	MaxMessageLen int    `mapstructure:"max_message_length"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL     string  `mapstructure:"base_url"`
		APIKey      string  `mapstructure:"api_key"`
		Timeout     int     `mapstructure:"timeout"` // milliseconds
		MaxRetries  int     `mapstructure:"max_retries"`
		MaxTokens   int     `mapstructure:"max_tokens"`
		Temperature float64 `mapstructure:"temperature"`
	} `mapstructure:"genai"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// RegistryConfig points at the activity registry maintained by cmd/tools/registry-updater.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
