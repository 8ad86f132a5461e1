package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	APIKeyEnv    = "IBM_WATSON_API_KEY"
	ProjectIDEnv = "IBM_WATSON_PROJECT_ID"
	ModelIDEnv   = "IBM_WATSON_MODEL_ID"

	DefaultIdentityURL = "https://iam.cloud.ibm.com/identity/token"
	DefaultChatURL     = "https://eu-de.ml.cloud.ibm.com/ml/v1/text/chat?version=2023-05-29"
	DefaultModelID     = "meta-llama/llama-3-3-70b-instruct"
	DefaultProjectID   = "9a0b1866-eecb-4b29-b7f1-7ba2345b5ea1"
	DefaultGrantType   = "urn:ibm:params:oauth:grant-type:apikey"

	defaultTimeoutSecs     = 60
	defaultMaxTokens       = 2000
	defaultTopP            = 1.0
	defaultEmbedBaseURL    = "http://localhost:11434"
	defaultEmbedModel      = "all-minilm"
	defaultDocsPath        = "docs"
	defaultVectorStorePath = "vector_store"
	defaultCollectionName  = "schemes"
	defaultChunkSize       = 1000
	defaultChunkOverlap    = 200
	defaultTopK            = 4
	defaultServerAddr      = ":8080"
	defaultRateLimitRPS    = 5
	defaultRateLimitBurst  = 10
)

// WatsonConfig holds the identity and chat endpoint settings.
type WatsonConfig struct {
	APIKey      string `yaml:"api_key"`
	IdentityURL string `yaml:"identity_url"`
	ChatURL     string `yaml:"chat_url"`
	ModelID     string `yaml:"model_id"`
	ProjectID   string `yaml:"project_id"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GenerationConfig holds the sampling parameters sent with every chat request.
// Pointers keep an explicit zero in the yaml file apart from "not set".
type GenerationConfig struct {
	FrequencyPenalty float64  `yaml:"frequency_penalty"`
	MaxTokens        int      `yaml:"max_tokens"`
	PresencePenalty  float64  `yaml:"presence_penalty"`
	Temperature      float64  `yaml:"temperature"`
	TopP             *float64 `yaml:"top_p,omitempty"`
}

// LLMConfig describes an ollama-served model.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type RAGConfig struct {
	DocsPath        string `yaml:"docs_path"`
	VectorStorePath string `yaml:"vector_store_path"`
	CollectionName  string `yaml:"collection_name"`
	ChunkSize       int    `yaml:"chunk_size"`
	// nil means the default; an explicit 0 disables overlap
	ChunkOverlap *int `yaml:"chunk_overlap,omitempty"`
	TopK         int  `yaml:"top_k"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	CORSOrigins    []string `yaml:"cors_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

type Config struct {
	Watson     WatsonConfig     `yaml:"watson"`
	Generation GenerationConfig `yaml:"generation"`
	EmbedLLM   LLMConfig        `yaml:"embedding"`
	RAG        RAGConfig        `yaml:"rag"`
	Server     ServerConfig     `yaml:"server"`
}

// LoadConfig reads the yaml file at path, overlays the environment (and a
// local .env file when present) and fills defaults. A missing file is not an
// error.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Watson.APIKey = getEnv(APIKeyEnv, cfg.Watson.APIKey)
	cfg.Watson.ProjectID = getEnv(ProjectIDEnv, cfg.Watson.ProjectID)
	cfg.Watson.ModelID = getEnv(ModelIDEnv, cfg.Watson.ModelID)
	cfg.Watson.TimeoutSecs = getEnvInt("IBM_WATSON_TIMEOUT_SECS", cfg.Watson.TimeoutSecs)
	cfg.EmbedLLM.BaseURL = getEnv("OLLAMA_BASE_URL", cfg.EmbedLLM.BaseURL)
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
}

// ApplyDefaults fills every unset field with its default value.
func ApplyDefaults(cfg *Config) {
	if cfg.Watson.IdentityURL == "" {
		cfg.Watson.IdentityURL = DefaultIdentityURL
	}
	if cfg.Watson.ChatURL == "" {
		cfg.Watson.ChatURL = DefaultChatURL
	}
	if cfg.Watson.ModelID == "" {
		cfg.Watson.ModelID = DefaultModelID
	}
	if cfg.Watson.ProjectID == "" {
		cfg.Watson.ProjectID = DefaultProjectID
	}
	if cfg.Watson.TimeoutSecs == 0 {
		cfg.Watson.TimeoutSecs = defaultTimeoutSecs
	}

	if cfg.Generation.MaxTokens == 0 {
		cfg.Generation.MaxTokens = defaultMaxTokens
	}
	if cfg.Generation.TopP == nil {
		topP := defaultTopP
		cfg.Generation.TopP = &topP
	}

	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = defaultEmbedBaseURL
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = defaultEmbedModel
	}

	if cfg.RAG.DocsPath == "" {
		cfg.RAG.DocsPath = defaultDocsPath
	}
	if cfg.RAG.VectorStorePath == "" {
		cfg.RAG.VectorStorePath = defaultVectorStorePath
	}
	if cfg.RAG.CollectionName == "" {
		cfg.RAG.CollectionName = defaultCollectionName
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap == nil {
		overlap := defaultChunkOverlap
		cfg.RAG.ChunkOverlap = &overlap
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = defaultTopK
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultServerAddr
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = defaultRateLimitRPS
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = defaultRateLimitBurst
	}
}

// Default returns a configuration made only of defaults.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
