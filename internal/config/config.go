package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	AI       AIConfig       `mapstructure:"ai"       validate:"required"`
	Session  SessionConfig  `mapstructure:"session"  validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Env names the deployment environment ("production" on Railway).
	Env string `mapstructure:"env" validate:"required,oneof=development production"`

	// RailwayDeployment is true when running on Railway; it switches the
	// bind address to all interfaces.
	RailwayDeployment bool `mapstructure:"railway_deployment"`

	// RailwayAppService marks this process as the app service in a
	// multi-service Railway project. Informational only.
	RailwayAppService bool `mapstructure:"railway_app_service"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// Pool settings. MaxOverflow is additional connections beyond
	// PoolSize, so the driver's max open connections is the sum.
	PoolSize           int `mapstructure:"pool_size"            validate:"required,gt=0"`
	MaxOverflow        int `mapstructure:"max_overflow"         validate:"gte=0"`
	PoolTimeoutSeconds int `mapstructure:"pool_timeout_seconds" validate:"required,gt=0"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes" validate:"required,gt=0"`
}

// MaxOpenConns returns the driver-level connection cap.
func (c DatabaseConfig) MaxOpenConns() int {
	return c.PoolSize + c.MaxOverflow
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// AIConfig contains all settings for the AI answering integration.
type AIConfig struct {
	// Provider selects the chat-completion backend: "openai" or "google".
	Provider string `mapstructure:"provider" validate:"required,oneof=openai google"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GoogleAPIKey string `mapstructure:"google_api_key"`

	Model               string  `mapstructure:"model" validate:"required"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" validate:"gte=0,lte=1"`
	MaxTokens           int     `mapstructure:"max_tokens" validate:"required,gt=0"`
	Temperature         float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxRetries          int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds   int     `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// SessionConfig contains conversation-session lifecycle settings.
type SessionConfig struct {
	IdleTimeoutMinutes int    `mapstructure:"idle_timeout_minutes" validate:"required,gt=0"`
	ReaperCronSpec     string `mapstructure:"reaper_cron_spec" validate:"required"`
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize           int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}
