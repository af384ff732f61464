// Package config loads runtime settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/yonghwan-ko02/talereboot/core"
)

// Supported providers.
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
)

// Default vector database locations. Local embeddings live in their own file
// because their vectors are not comparable with remote ones.
const (
	DefaultVectorDB      = "lore.db"
	DefaultLocalVectorDB = "lore_local.db"
)

// Config is the runtime configuration.
type Config struct {
	Provider        string `env:"TALE_AI_PROVIDER" envDefault:"google"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// ChatModel and EmbeddingModel override the provider defaults.
	ChatModel      string `env:"TALE_CHAT_MODEL"`
	EmbeddingModel string `env:"TALE_EMBEDDING_MODEL"`
	LocalBaseURL   string `env:"TALE_LOCAL_BASE_URL" envDefault:"http://localhost:11434/v1"`

	VectorDBPath   string        `env:"TALE_VECTOR_DB"`
	Collection     string        `env:"TALE_COLLECTION"      envDefault:"kongjwi_story"`
	BookPath       string        `env:"TALE_BOOK_PATH"       envDefault:"data/story.txt"`
	TopK           int           `env:"TALE_TOP_K"           envDefault:"3"`
	MaxRetries     int           `env:"TALE_MAX_RETRIES"     envDefault:"3"`
	InitialBackoff time.Duration `env:"TALE_INITIAL_BACKOFF" envDefault:"1s"`

	Persona  string `env:"TALE_PERSONA"  envDefault:"classic"`
	Language string `env:"TALE_LANGUAGE" envDefault:"Korean"`
	// MaxModelCalls caps model calls per session; 0 means unlimited.
	MaxModelCalls int `env:"TALE_MAX_MODEL_CALLS" envDefault:"0"`

	// TranscriptDBPath enables the SQLite turn recorder when set.
	TranscriptDBPath string `env:"TALE_TRANSCRIPT_DB"`

	LogLevel  string `env:"TALE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"TALE_LOG_FORMAT" envDefault:"text"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the given .env files (".env" when none are named; missing files
// are skipped), parses the environment and validates the result.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Persona = strings.ToLower(strings.TrimSpace(c.Persona))
	if c.VectorDBPath == "" {
		c.VectorDBPath = DefaultVectorDB
		if c.Provider == ProviderLocal {
			c.VectorDBPath = DefaultLocalVectorDB
		}
	}
}

// Validate checks the provider name and numeric bounds. Missing credentials
// are not an error here: retrieval degrades and generation reports them.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGoogle, ProviderOpenAI, ProviderAnthropic, ProviderLocal:
	default:
		return core.Errorf(core.CodeConfiguration, "unsupported TALE_AI_PROVIDER %q", c.Provider)
	}
	if c.TopK < 0 || c.MaxRetries < 0 || c.InitialBackoff < 0 || c.MaxModelCalls < 0 {
		return core.NewError(core.CodeConfiguration, "numeric settings must not be negative")
	}
	return nil
}

// Credential returns the API key of the configured provider. Local servers
// need none.
func (c Config) Credential() string {
	switch c.Provider {
	case ProviderGoogle:
		return c.GoogleAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

// EmbeddingCredential returns the key used for embeddings. Anthropic has no
// embedding endpoint, so that provider embeds through OpenAI.
func (c Config) EmbeddingCredential() string {
	if c.Provider == ProviderAnthropic {
		return c.OpenAIAPIKey
	}
	return c.Credential()
}
