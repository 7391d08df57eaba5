package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "COVERDOC_API_KEY", "MAX_CONCURRENT_PAGES", "MAX_CONCURRENT_FILES",
		"MAX_UPLOAD_BYTES", "PDF_FALLBACK_PDFTOTEXT", "TOKENIZER_CMD", "TOKENIZER_ARGS",
		"STATS_WINDOW", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8091", cfg.Port)
	assert.Equal(t, 8, cfg.MaxConcurrentPages)
	assert.Equal(t, 4, cfg.MaxConcurrentFiles)
	assert.Equal(t, int64(20971520), cfg.MaxUploadBytes)
	assert.True(t, cfg.PDFFallbackPdftotext)
	assert.Empty(t, cfg.TokenizerCmd)
	assert.Empty(t, cfg.TokenizerArgs)
	assert.Equal(t, time.Hour, cfg.StatsWindow)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("COVERDOC_API_KEY", "secret")
	t.Setenv("MAX_CONCURRENT_PAGES", "2")
	t.Setenv("MAX_CONCURRENT_FILES", "-1")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("TOKENIZER_CMD", "kiwi-tag")
	t.Setenv("TOKENIZER_ARGS", "--json  --model base")
	t.Setenv("STATS_WINDOW", "15m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 2, cfg.MaxConcurrentPages)
	assert.Equal(t, 4, cfg.MaxConcurrentFiles)
	assert.False(t, cfg.PDFFallbackPdftotext)
	assert.Equal(t, "kiwi-tag", cfg.TokenizerCmd)
	assert.Equal(t, []string{"--json", "--model", "base"}, cfg.TokenizerArgs)
	assert.Equal(t, 15*time.Minute, cfg.StatsWindow)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_PAGES", "many")
	t.Setenv("STATS_WINDOW", "soon")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()
	assert.Equal(t, 8, cfg.MaxConcurrentPages)
	assert.Equal(t, time.Hour, cfg.StatsWindow)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := Config{Port: "8091"}
	assert.ErrorContains(t, cfg.Validate(), "COVERDOC_API_KEY")

	cfg.APIKey = "k"
	require.NoError(t, cfg.Validate())

	cfg.Port = "http"
	assert.ErrorContains(t, cfg.Validate(), "PORT")
}
