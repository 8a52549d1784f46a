package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, "./data", config.Storage.Badger.Path)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, 768, config.LLM.EmbeddingDimension)
	assert.Equal(t, 5, config.Chat.MaxContextEntries)
	assert.True(t, config.Chat.RAGEnabled)
	assert.Equal(t, "* * * * *", config.Scheduler.ReminderSchedule)
	assert.Equal(t, "requirements.txt", config.Legacy.ManifestFile)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/mymind.toml")
	assert.Error(t, err)
}

func TestLoadFromFile_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mymind.toml")
	content := `
[server]
port = 9090

[chat]
max_context_entries = 8

[llm]
default_provider = "claude"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host) // default preserved
	assert.Equal(t, 8, config.Chat.MaxContextEntries)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")
	require.NoError(t, os.WriteFile(base, []byte("[server]\nport = 9000\nhost = \"base\"\n"), 0644))
	require.NoError(t, os.WriteFile(override, []byte("[server]\nport = 9001\n"), 0644))

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, 9001, config.Server.Port)
	assert.Equal(t, "base", config.Server.Host)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MYMIND_SERVER_PORT", "7070")
	t.Setenv("MYMIND_GEMINI_API_KEY", "test-key")
	t.Setenv("MYMIND_CHAT_MAX_CONTEXT_ENTRIES", "3")

	config := NewDefaultConfig()
	applyEnvOverrides(config)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "test-key", config.Gemini.APIKey)
	assert.Equal(t, 3, config.Chat.MaxContextEntries)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 6060, "0.0.0.0")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	// Zero values leave config unchanged
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestValidate(t *testing.T) {
	config := NewDefaultConfig()
	assert.NoError(t, config.Validate())

	config.LLM.DefaultProvider = "openai"
	assert.Error(t, config.Validate())

	config = NewDefaultConfig()
	config.Scheduler.ReminderSchedule = "not a cron"
	assert.Error(t, config.Validate())
}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("* * * * *"))
	assert.NoError(t, ValidateCronSchedule("*/10 * * * *"))
	assert.Error(t, ValidateCronSchedule("bogus"))
}

func TestIsProduction(t *testing.T) {
	config := NewDefaultConfig()
	assert.False(t, config.IsProduction())

	config.Environment = "production"
	assert.True(t, config.IsProduction())

	config.Environment = " Prod "
	assert.True(t, config.IsProduction())
}
