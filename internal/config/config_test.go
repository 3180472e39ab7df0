package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "docs.html.tmpl", cfg.Docs.Template)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("BACKGEN_LLM_API_KEY", "sk-test")
	t.Setenv("BACKGEN_SERVER_ADDR", ":9090")

	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1", normalizeBaseURL("https://api.openai.com/v1/"))
	assert.Equal(t, "http://localhost:11434/v1", normalizeBaseURL(" http://localhost:11434/v1 "))
}
