package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when the corresponding environment variable
// is not set. Pool and AI defaults follow the original deployment.
const (
	defaultPort                = 5000
	defaultLogLevel            = "info"
	defaultEnv                 = "production"
	defaultPoolSize            = 10
	defaultMaxOverflow         = 20
	defaultPoolTimeoutSeconds  = 30
	defaultConnMaxLifetimeMin  = 5
	defaultTokenLifetimeMin    = 60
	defaultRefreshLifetimeMin  = 7 * 24 * 60
	defaultBcryptCost          = 10
	defaultAIProvider          = "openai"
	defaultAIModel             = "gpt-3.5-turbo"
	defaultSimilarityThreshold = 0.3
	defaultAIMaxTokens         = 500
	defaultAITemperature       = 0.7
	defaultAIMaxRetries        = 3
	defaultAIRetryDelaySecs    = 2
	defaultIdleTimeoutMinutes  = 30
	defaultReaperCronSpec      = "*/5 * * * *"
	defaultTaskWorkerCount     = 2
	defaultTaskQueueSize       = 100
	defaultStuckTaskAgeMin     = 30

	// Development-only fallback; production deployments must set SECRET_KEY.
	defaultDevSecretKey = "dev-secret-key-change-in-production-0000"
)

// Load reads configuration from environment variables, applies defaults,
// and validates the result. Environment variables may use either the
// FAQ_ prefix (FAQ_SERVER_PORT) or the platform-provided names Railway
// injects (PORT, DATABASE_URL, POSTGRES_*, SECRET_KEY, OPENAI_API_KEY).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("FAQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindPlatformEnv(v)

	// DATABASE_URL wins; otherwise compose it from the POSTGRES_* parts.
	if v.GetString("database.url") == "" {
		dbURL, err := composeDatabaseURL()
		if err != nil {
			return nil, err
		}
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Railway flags accept the same truthy spellings the original did.
	cfg.Server.RailwayDeployment = isTruthy(os.Getenv("RAILWAY_DEPLOYMENT"))
	cfg.Server.RailwayAppService = isTruthy(os.Getenv("RAILWAY_APP_SERVICE"))

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults establishes default values for all configurable settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("server.env", defaultEnv)

	v.SetDefault("database.pool_size", defaultPoolSize)
	v.SetDefault("database.max_overflow", defaultMaxOverflow)
	v.SetDefault("database.pool_timeout_seconds", defaultPoolTimeoutSeconds)
	v.SetDefault("database.conn_max_lifetime_minutes", defaultConnMaxLifetimeMin)

	v.SetDefault("auth.jwt_secret", defaultDevSecretKey)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMin)
	v.SetDefault("auth.refresh_token_lifetime_minutes", defaultRefreshLifetimeMin)
	v.SetDefault("auth.bcrypt_cost", defaultBcryptCost)

	v.SetDefault("ai.provider", defaultAIProvider)
	v.SetDefault("ai.model", defaultAIModel)
	v.SetDefault("ai.similarity_threshold", defaultSimilarityThreshold)
	v.SetDefault("ai.max_tokens", defaultAIMaxTokens)
	v.SetDefault("ai.temperature", defaultAITemperature)
	v.SetDefault("ai.max_retries", defaultAIMaxRetries)
	v.SetDefault("ai.retry_delay_seconds", defaultAIRetryDelaySecs)

	v.SetDefault("session.idle_timeout_minutes", defaultIdleTimeoutMinutes)
	v.SetDefault("session.reaper_cron_spec", defaultReaperCronSpec)

	v.SetDefault("task.worker_count", defaultTaskWorkerCount)
	v.SetDefault("task.queue_size", defaultTaskQueueSize)
	v.SetDefault("task.stuck_task_age_minutes", defaultStuckTaskAgeMin)
}

// bindPlatformEnv maps the unprefixed environment variables the platform
// provides onto config keys. The FAQ_-prefixed name is listed first so an
// explicit application setting overrides the platform one.
func bindPlatformEnv(v *viper.Viper) {
	// BindEnv never fails with a key and at least one env name.
	_ = v.BindEnv("server.port", "FAQ_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.url", "FAQ_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("database.pool_size", "FAQ_DATABASE_POOL_SIZE", "DB_POOL_SIZE")
	_ = v.BindEnv("database.max_overflow", "FAQ_DATABASE_MAX_OVERFLOW", "DB_MAX_OVERFLOW")
	_ = v.BindEnv("database.pool_timeout_seconds", "FAQ_DATABASE_POOL_TIMEOUT_SECONDS", "DB_POOL_TIMEOUT")
	_ = v.BindEnv("auth.jwt_secret", "FAQ_AUTH_JWT_SECRET", "SECRET_KEY")
	_ = v.BindEnv("ai.openai_api_key", "FAQ_AI_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("ai.google_api_key", "FAQ_AI_GOOGLE_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("ai.similarity_threshold", "FAQ_AI_SIMILARITY_THRESHOLD", "AI_SIMILARITY_THRESHOLD")
	_ = v.BindEnv("ai.max_tokens", "FAQ_AI_MAX_TOKENS", "AI_MAX_TOKENS")
	_ = v.BindEnv("ai.temperature", "FAQ_AI_TEMPERATURE", "AI_TEMPERATURE")
}

// composeDatabaseURL builds a PostgreSQL connection URL from the
// individual POSTGRES_* variables, with the same defaults the Railway
// internal network uses. PostgreSQL is required: there is no fallback
// to a file-based database.
func composeDatabaseURL() (string, error) {
	host := envOrDefault("POSTGRES_HOST", "postgres.railway.internal")
	port := envOrDefault("POSTGRES_PORT", "5432")
	name := envOrDefault("POSTGRES_DB", "railway")
	user := envOrDefault("POSTGRES_USER", "postgres")
	password := os.Getenv("POSTGRES_PASSWORD")
	sslmode := envOrDefault("POSTGRES_SSLMODE", "require")

	if host == "" || name == "" || user == "" || password == "" {
		return "", fmt.Errorf(
			"postgresql configuration is required: set DATABASE_URL or the individual POSTGRES_* environment variables")
	}

	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}

	return u.String(), nil
}

// envOrDefault returns the environment variable value or the fallback
// when the variable is unset or empty.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// isTruthy reports whether a flag-style environment value means "on".
// Accepted spellings match the original deployment: true, 1, yes.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
