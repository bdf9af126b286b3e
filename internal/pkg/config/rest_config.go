package config

import (
	"fmt"
	"os"
	"strconv"
)

// RestConfig aggregates all settings required by the REST API process
type RestConfig struct {
	Server   ServerSettings
	Database DatabaseSettings
	Logger   LoggerSettings
	LLM      LLMSettings
	Auth     AuthSettings
	// DefaultWorkspaceID is applied to inbound voice calls that carry no
	// workspace metadata.
	DefaultWorkspaceID string
}

// InitializeRestConfig loads the REST API configuration from environment
// variables, applying defaults where values are unset, and validates it.
func InitializeRestConfig() (*RestConfig, error) {
	cfg := &RestConfig{
		Server: ServerSettings{
			Port:        getEnv("PORT", "8000"),
			Environment: getEnv("ENVIRONMENT", EnvironmentDev),
			FrontendURL: getEnv("FRONTEND_URL", "https://agentic-dentist.vercel.app"),
		},
		Database: DatabaseSettings{
			Type:   getEnv("DB_TYPE", SqliteDbType),
			DSN:    getEnv("DB_DSN", ":memory:"),
			DBName: getEnv("DB_NAME", ""),
		},
		Logger: LoggerSettings{
			LogLevel:   getEnv("LOG_LEVEL", LogLevelInfo),
			LogType:    getEnv("LOG_TYPE", LogTypeConsole),
			FilePath:   getEnv("LOG_FILE_PATH", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		},
		LLM: LLMSettings{
			Provider:     getEnv("LLM_PROVIDER", OpenAIProvider),
			BaseURL:      getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:       getEnv("OPENAI_API_KEY", ""),
			PrimaryModel: getEnv("LLM_MODEL_PRIMARY", "gpt-4o"),
			FastModel:    getEnv("LLM_MODEL_FAST", "gpt-4o-mini"),
			Temperature:  getEnvFloat("LLM_TEMPERATURE", 0.1),
			MaxTokens:    getEnvInt("LLM_MAX_TOKENS", 2000),
		},
		Auth: AuthSettings{
			JWTSecret:        getEnv("API_SECRET_KEY", ""),
			Issuer:           getEnv("AUTH_ISSUER", ""),
			Audience:         getEnv("AUTH_AUDIENCE", ""),
			PHIEncryptionKey: getEnv("PHI_ENCRYPTION_KEY", "CHANGE_ME_IN_PRODUCTION"),
		},
		DefaultWorkspaceID: getEnv("DEFAULT_WORKSPACE_ID", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every settings group
func (c *RestConfig) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server settings: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database settings: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("invalid logger settings: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid LLM settings: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("invalid auth settings: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
