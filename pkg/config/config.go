package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Provider names
const (
	STTProviderWatson     = "watson"
	STTProviderAssemblyAI = "assemblyai"

	InferenceProviderWatsonx = "watsonx"
	InferenceProviderOpenAI  = "openai"
	InferenceProviderGroq    = "groq"
	InferenceProviderGemini  = "gemini"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Providers  ProvidersConfig
	IAM        IAMConfig
	WatsonSTT  WatsonSTTConfig
	AssemblyAI AssemblyAIConfig
	Watsonx    WatsonxConfig
	OpenAI     OpenAIConfig
	Groq       OpenAIConfig
	Gemini     GeminiConfig
	Generation GenerationConfig
	Archive    ArchiveConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	JWT        JWTConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	UIPort          string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
	MaxUploadMB     int
	RateLimit       int // requests per minute per client, 0 disables
}

// ProvidersConfig selects the speech-recognition and inference backends
type ProvidersConfig struct {
	STT       string
	Inference string
}

// IAMConfig holds the IBM Cloud IAM token endpoint
type IAMConfig struct {
	URL string `envconfig:"IAM_URL" default:"https://iam.cloud.ibm.com/identity/token"`
}

// WatsonSTTConfig holds Watson Speech to Text configuration
type WatsonSTTConfig struct {
	APIKey  string        `envconfig:"SPEECH_TO_TEXT_API_KEY"`
	URL     string        `envconfig:"SPEECH_TO_TEXT_URL"`
	Model   string        `envconfig:"SPEECH_TO_TEXT_MODEL" default:"en-US_BroadbandModel"`
	Timeout time.Duration `envconfig:"SPEECH_TO_TEXT_TIMEOUT" default:"5m"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY"`
}

// WatsonxConfig holds watsonx.ai text generation configuration
type WatsonxConfig struct {
	URL        string        `envconfig:"WATSONX_URL" default:"https://us-south.ml.cloud.ibm.com"`
	APIKey     string        `envconfig:"WATSONX_API_KEY"`
	ProjectID  string        `envconfig:"PROJECT_ID"`
	ModelID    string        `envconfig:"WATSONX_MODEL_ID" default:"mistralai/mistral-large"`
	APIVersion string        `envconfig:"WATSONX_API_VERSION" default:"2023-05-29"`
	Timeout    time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"120s"`
}

// OpenAIConfig holds configuration for OpenAI-compatible chat backends
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiConfig holds Gemini configuration
type GeminiConfig struct {
	APIKey string `envconfig:"GEMINI_API_KEY"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
}

// GenerationConfig holds decoding parameters shared by all inference backends
type GenerationConfig struct {
	DecodingMethod string  `envconfig:"GENERATION_DECODING_METHOD" default:"greedy"`
	MinNewTokens   int     `envconfig:"GENERATION_MIN_NEW_TOKENS" default:"100"`
	MaxNewTokens   int     `envconfig:"GENERATION_MAX_NEW_TOKENS" default:"2000"`
	TopP           float64 `envconfig:"GENERATION_TOP_P" default:"0.9"`
	Temperature    float64 `envconfig:"GENERATION_TEMPERATURE" default:"0.7"`
}

// ArchiveConfig toggles persistence of finished runs
type ArchiveConfig struct {
	Enabled bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type            string // "minio" or "s3"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// JWTConfig holds the optional API token settings. An empty secret disables auth.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	config, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnv loads configuration without checking backend credentials. Used by
// tooling (migrations, token issuing) that never calls a backend.
func LoadEnv() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			UIPort:          getEnv("UI_PORT", "8501"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", "*"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			MaxUploadMB:     getEnvAsInt("MAX_UPLOAD_MB", 100),
			RateLimit:       getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		Providers: ProvidersConfig{
			STT:       strings.ToLower(getEnv("STT_PROVIDER", STTProviderWatson)),
			Inference: strings.ToLower(getEnv("INFERENCE_PROVIDER", InferenceProviderWatsonx)),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("INFERENCE_TIMEOUT", "120s"),
		},
		Groq: OpenAIConfig{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   getEnv("GROQ_MODEL", "llama-3.1-70b-versatile"),
			Timeout: getEnvAsDuration("INFERENCE_TIMEOUT", "120s"),
		},
		Archive: ArchiveConfig{
			Enabled: getEnvAsBool("ARCHIVE_ENABLED", false),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "keynotes"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 2),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Type:            strings.ToLower(getEnv("STORAGE_TYPE", "minio")),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "keynotes"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			Issuer: getEnv("JWT_ISSUER", "keynotes"),
		},
	}

	// Backend credential sections are tag-driven
	sections := []interface{}{
		&config.IAM,
		&config.WatsonSTT,
		&config.AssemblyAI,
		&config.Watsonx,
		&config.Gemini,
		&config.Generation,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read backend configuration: %w", err)
		}
	}

	return config, nil
}

// Validate validates the configuration. Speech-recognition credentials are
// checked when the recognizer is built so manual-transcript deployments can
// run without them.
func (c *Config) Validate() error {
	switch c.Providers.STT {
	case STTProviderWatson, STTProviderAssemblyAI:
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q", c.Providers.STT)
	}

	switch c.Providers.Inference {
	case InferenceProviderWatsonx:
		if c.Watsonx.APIKey == "" {
			return fmt.Errorf("WATSONX_API_KEY is required")
		}
		if c.Watsonx.ProjectID == "" {
			return fmt.Errorf("PROJECT_ID is required")
		}
	case InferenceProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	case InferenceProviderGroq:
		if c.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required")
		}
	case InferenceProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("unknown INFERENCE_PROVIDER %q", c.Providers.Inference)
	}

	if c.Generation.MinNewTokens < 0 || c.Generation.MaxNewTokens < c.Generation.MinNewTokens {
		return fmt.Errorf("GENERATION_MAX_NEW_TOKENS must be >= GENERATION_MIN_NEW_TOKENS >= 0")
	}

	if c.Archive.Enabled && c.Storage.Type != "minio" && c.Storage.Type != "s3" {
		return fmt.Errorf("STORAGE_TYPE must be minio or s3, got %q", c.Storage.Type)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
