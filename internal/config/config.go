package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AI       AIConfig
	Feed     FeedConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// AIConfig selects and configures the conversational inference backend.
// Provider is "qwen" (DashScope OpenAI-compatible endpoint, the default)
// or "gemini".
type AIConfig struct {
	Provider       string
	QwenAPIKey     string
	QwenBaseURL    string
	QwenModel      string
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration
}

type FeedConfig struct {
	// RecommendGender is the gender code requested from the profile
	// source when assembling the recommendation feed.
	RecommendGender int
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 100)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 10)
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_POOL_SIZE", 10)
	viper.SetDefault("REDIS_MIN_IDLE_CONNS", 5)
	viper.SetDefault("JWT_TOKEN_TTL_HOURS", 24)
	viper.SetDefault("AI_PROVIDER", "qwen")
	viper.SetDefault("QWEN_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	viper.SetDefault("QWEN_MODEL", "qwen-plus")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	viper.SetDefault("AI_REQUEST_TIMEOUT_SEC", 30)
	viper.SetDefault("FEED_RECOMMEND_GENDER", 2)
	viper.SetDefault("LOG_LEVEL", "info")

	// Try to read from .env file, but don't fail if it doesn't exist.
	_ = viper.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetInt("DB_PORT"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASSWORD"),
			DBName:       viper.GetString("DB_NAME"),
			SSLMode:      viper.GetString("DB_SSL_MODE"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:         viper.GetString("REDIS_HOST"),
			Port:         viper.GetInt("REDIS_PORT"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			DB:           viper.GetInt("REDIS_DB"),
			PoolSize:     viper.GetInt("REDIS_POOL_SIZE"),
			MinIdleConns: viper.GetInt("REDIS_MIN_IDLE_CONNS"),
		},
		JWT: JWTConfig{
			Secret:   viper.GetString("JWT_SECRET"),
			TokenTTL: time.Duration(viper.GetInt("JWT_TOKEN_TTL_HOURS")) * time.Hour,
		},
		AI: AIConfig{
			Provider:       viper.GetString("AI_PROVIDER"),
			QwenAPIKey:     viper.GetString("DASHSCOPE_API_KEY"),
			QwenBaseURL:    viper.GetString("QWEN_BASE_URL"),
			QwenModel:      viper.GetString("QWEN_MODEL"),
			GeminiAPIKey:   viper.GetString("GEMINI_API_KEY"),
			GeminiModel:    viper.GetString("GEMINI_MODEL"),
			RequestTimeout: time.Duration(viper.GetInt("AI_REQUEST_TIMEOUT_SEC")) * time.Second,
		},
		Feed: FeedConfig{
			RecommendGender: viper.GetInt("FEED_RECOMMEND_GENDER"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	switch c.AI.Provider {
	case "qwen", "gemini":
	default:
		return fmt.Errorf("unknown AI provider %q", c.AI.Provider)
	}
	return nil
}

// GetDSN returns PostgreSQL connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address.
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
