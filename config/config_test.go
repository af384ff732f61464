package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonghwan-ko02/talereboot/core"
)

var envKeys = []string{
	"TALE_AI_PROVIDER", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	"TALE_VECTOR_DB", "TALE_TOP_K", "TALE_PERSONA", "TALE_INITIAL_BACKOFF",
	"TALE_LANGUAGE", "TALE_MAX_MODEL_CALLS",
}

// clearEnv blanks the variables Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, DefaultVectorDB, cfg.VectorDBPath)
	assert.Equal(t, "kongjwi_story", cfg.Collection)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, "classic", cfg.Persona)
	assert.Equal(t, "Korean", cfg.Language)
	assert.Equal(t, 0, cfg.MaxModelCalls)
	assert.Empty(t, cfg.Credential())
}

func TestLoad_LocalProviderUsesOwnVectorDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALE_AI_PROVIDER", " Local ")
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, cfg.Provider)
	assert.Equal(t, DefaultLocalVectorDB, cfg.VectorDBPath)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TALE_AI_PROVIDER=openai\nOPENAI_API_KEY=sk-file\nTALE_TOP_K=5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-file", cfg.Credential())
	assert.Equal(t, "sk-file", cfg.EmbeddingCredential())
	assert.Equal(t, 5, cfg.TopK)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_API_KEY=from-file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GoogleAPIKey)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALE_AI_PROVIDER", "mistral")
	_, err := Load(missingEnvFile(t))
	assert.ErrorIs(t, err, core.ErrConfiguration)

	t.Setenv("TALE_AI_PROVIDER", "google")
	t.Setenv("TALE_TOP_K", "three")
	_, err = Load(missingEnvFile(t))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse env:"))

	t.Setenv("TALE_TOP_K", "-1")
	_, err = Load(missingEnvFile(t))
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestEmbeddingCredential_Anthropic(t *testing.T) {
	cfg := Config{Provider: ProviderAnthropic, AnthropicAPIKey: "ant", OpenAIAPIKey: "oai"}
	assert.Equal(t, "ant", cfg.Credential())
	assert.Equal(t, "oai", cfg.EmbeddingCredential())
}
