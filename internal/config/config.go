package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	embeddingark "github.com/cloudwego/eino-ext/components/embedding/ark"
	modelark "github.com/cloudwego/eino-ext/components/model/ark"
	modelopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server     ServerConfig
	Embedding  EmbeddingConfig
	Primary    ProviderConfig
	Secondary  ProviderConfig
	Classifier ClassifierConfig
	Pipeline   PipelineConfig
}

// Load reads the full configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	primary, err := loadProviderConfig("PRIMARY", providerDefaults{
		baseURL: "https://ark.cn-beijing.volces.com/api/v3",
		region:  "cn-beijing",
		timeout: 30,
	})
	if err != nil {
		return nil, err
	}

	secondary, err := loadProviderConfig("SECONDARY", providerDefaults{
		baseURL: "https://api.together.xyz/v1",
		model:   "mistralai/Mixtral-8x7B-Instruct-v0.1",
		timeout: 30,
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := loadPipelineConfig()
	if err != nil {
		return nil, err
	}

	classifier, err := loadClassifierConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:     server,
		Embedding:  loadEmbeddingConfig(),
		Primary:    primary,
		Secondary:  secondary,
		Classifier: classifier,
		Pipeline:   pipeline,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// EmbeddingConfig describes the remote embedding provider.
type EmbeddingConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Region  string
	Timeout time.Duration
}

// Enabled reports whether the embedding credential is present. Absence
// deterministically disables the embedding step.
func (c EmbeddingConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewEmbedder builds the remote embedder from the configuration.
func (c EmbeddingConfig) NewEmbedder(ctx context.Context) (embedding.Embedder, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("embedding credential or model missing, set EMBEDDING_API_KEY and EMBEDDING_MODEL")
	}

	return embeddingark.NewEmbedder(ctx, &embeddingark.EmbeddingConfig{
		APIKey:  c.APIKey,
		Model:   c.Model,
		BaseURL: c.BaseURL,
		Region:  c.Region,
	})
}

func loadEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		APIKey:  strings.TrimSpace(os.Getenv("EMBEDDING_API_KEY")),
		Model:   strings.TrimSpace(os.Getenv("EMBEDDING_MODEL")),
		BaseURL: getEnvOrDefault("EMBEDDING_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:  getEnvOrDefault("EMBEDDING_REGION", "cn-beijing"),
		Timeout: 30 * time.Second,
	}
}

// ProviderConfig describes one chat-completion provider used by a suggestion
// tier. The primary tier talks to Ark, the secondary tier to any
// OpenAI-compatible endpoint.
type ProviderConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Region      string
	Timeout     time.Duration
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether this tier has a usable credential.
func (c ProviderConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewArkChatModel builds an Ark chat model from the configuration.
func (c ProviderConfig) NewArkChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credential or model missing")
	}

	return modelark.NewChatModel(ctx, &modelark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: toFloat32(c.Temperature),
		TopP:        toFloat32(c.TopP),
	})
}

// NewOpenAIChatModel builds an OpenAI-compatible chat model (Together,
// OpenRouter, or any endpoint speaking the same protocol).
func (c ProviderConfig) NewOpenAIChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("openai-compatible credential or model missing")
	}

	return modelopenai.NewChatModel(ctx, &modelopenai.ChatModelConfig{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Timeout:     c.Timeout,
		MaxTokens:   c.MaxTokens,
		Temperature: toFloat32(c.Temperature),
		TopP:        toFloat32(c.TopP),
	})
}

type providerDefaults struct {
	baseURL string
	region  string
	model   string
	timeout int
}

func loadProviderConfig(prefix string, defaults providerDefaults) (ProviderConfig, error) {
	temperature, err := parseOptionalFloatEnv(prefix + "_TEMPERATURE")
	if err != nil {
		return ProviderConfig{}, err
	}

	topP, err := parseOptionalFloatEnv(prefix + "_TOP_P")
	if err != nil {
		return ProviderConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv(prefix + "_MAX_TOKENS")
	if err != nil {
		return ProviderConfig{}, err
	}

	timeoutSeconds := defaults.timeout
	if override, err := parseOptionalIntEnv(prefix + "_TIMEOUT_SECONDS"); err != nil {
		return ProviderConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return ProviderConfig{
		APIKey:      strings.TrimSpace(os.Getenv(prefix + "_API_KEY")),
		Model:       getEnvOrDefault(prefix+"_MODEL", defaults.model),
		BaseURL:     getEnvOrDefault(prefix+"_BASE_URL", defaults.baseURL),
		Region:      getEnvOrDefault(prefix+"_REGION", defaults.region),
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// ClassifierConfig describes the hosted text-classification endpoint. When no
// credential is present the service falls back to the built-in lexicon.
type ClassifierConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Enabled reports whether the hosted classifier can be used.
func (c ClassifierConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

func loadClassifierConfig() (ClassifierConfig, error) {
	timeoutSeconds := 15
	if override, err := parseOptionalIntEnv("CLASSIFIER_TIMEOUT_SECONDS"); err != nil {
		return ClassifierConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return ClassifierConfig{
		APIKey:  strings.TrimSpace(os.Getenv("CLASSIFIER_API_KEY")),
		Model:   getEnvOrDefault("CLASSIFIER_MODEL", "j-hartmann/emotion-english-distilroberta-base"),
		BaseURL: getEnvOrDefault("CLASSIFIER_BASE_URL", "https://api-inference.huggingface.co"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// PipelineConfig tunes the suggestion pipeline.
type PipelineConfig struct {
	ContextTurns int
}

func loadPipelineConfig() (PipelineConfig, error) {
	contextTurns := 4
	if override, err := parseOptionalIntEnv("SUGGESTION_CONTEXT_TURNS"); err != nil {
		return PipelineConfig{}, err
	} else if override != nil {
		if *override < 0 {
			contextTurns = 0
		} else {
			contextTurns = *override
		}
	}

	return PipelineConfig{ContextTurns: contextTurns}, nil
}

func toFloat32(val *float64) *float32 {
	if val == nil {
		return nil
	}
	converted := float32(*val)
	return &converted
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
