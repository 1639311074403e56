package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[claude]
api_key = "sk-file"
model = "claude-file"

[accounts.twitter]
access_token = "tw-token"
user_id = "tw-user"

[options]
save_location = "/tmp/autocomment"
nb_comments = 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-file", cfg.Claude.APIKey)
	assert.Equal(t, 5, cfg.Options.NbComments)

	account, ok := cfg.Account("twitter")
	require.True(t, ok)
	assert.Equal(t, "tw-token", account.AccessToken)
	assert.Equal(t, "tw-user", account.UserID)

	_, ok = cfg.Account("facebook")
	assert.False(t, ok)
}

func TestLoadConfigRequiresSaveLocation(t *testing.T) {
	path := writeConfig(t, `
[claude]
api_key = "sk"
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save_location")
}

func TestLoadConfigDefaultsNbComments(t *testing.T) {
	path := writeConfig(t, `
[options]
save_location = "/tmp/autocomment"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Options.NbComments)
}

func TestResolveAPIKeyPrefersEnvironment(t *testing.T) {
	cfg := &Config{Claude: ClaudeConfig{APIKey: "sk-file"}}

	assert.Equal(t, "sk-file", cfg.ResolveAPIKey())

	t.Setenv("ANTHROPIC_API_KEY_OWNER", "sk-anthropic")
	assert.Equal(t, "sk-anthropic", cfg.ResolveAPIKey())

	t.Setenv("CLAUDE_API_KEY_OWNER", "sk-claude")
	assert.Equal(t, "sk-claude", cfg.ResolveAPIKey())
}

func TestResolveModelChain(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, defaultClaudeModel, cfg.ResolveModel())

	cfg.Claude.Model = "claude-file"
	assert.Equal(t, "claude-file", cfg.ResolveModel())

	t.Setenv("ANTHROPIC_MODEL", "claude-anthropic")
	assert.Equal(t, "claude-anthropic", cfg.ResolveModel())

	t.Setenv("CLAUDE_MODEL", "claude-generic")
	assert.Equal(t, "claude-generic", cfg.ResolveModel())

	t.Setenv("TIPOTE_CLAUDE_MODEL", "claude-tipote")
	assert.Equal(t, "claude-tipote", cfg.ResolveModel())
}

func TestEnsureConfigExistsCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, EnsureConfigExists(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Options.NbComments)
	_, ok := cfg.Account("twitter")
	assert.True(t, ok)
}
