package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:8800", cfg.Server.Addr())
	assert.Equal(t, "./data/agents", cfg.Store.AgentsDir())
	assert.Equal(t, 25, cfg.Graph.MaxIterations)
	assert.Equal(t, 3, cfg.Session.CacheTurns)
	assert.Equal(t, 4, cfg.Eval.MaxConcurrentTasks)
}

func TestLoad_ExpandsEnvAndValidates(t *testing.T) {
	t.Setenv("TEST_COORAGENT_API_KEY", "sk-test-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
version: "1"
name: test
store:
  root_dir: ./data
llms:
  basic:
    provider: openai
    model: gpt-4o-mini
    api_key: ${TEST_COORAGENT_API_KEY}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, cfg.LLMs, "basic")
	assert.Equal(t, "sk-test-123", cfg.LLMs["basic"].APIKey)
	assert.Equal(t, 4096, cfg.LLMs["basic"].MaxTokens)
}

func TestLoad_RejectsInvalidLLM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
llms:
  basic:
    provider: ""
    model: gpt-4o-mini
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestAdminConfig_IsAdmin(t *testing.T) {
	cfg := AdminConfig{UserIDs: []string{"alice", "bob"}}
	assert.True(t, cfg.IsAdmin("alice"))
	assert.False(t, cfg.IsAdmin("carol"))
}
