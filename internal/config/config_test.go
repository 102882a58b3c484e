package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.googleapis.com/youtube/v3", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.HTTPTimeout)
	assert.Equal(t, "trending", cfg.API.DefaultTerm)
	assert.Equal(t, 24, cfg.API.FeedPageSize)
	assert.Equal(t, 24, cfg.API.SearchPageSize)
	assert.Equal(t, 15, cfg.API.RelatedLimit)
	assert.Equal(t, 10, cfg.History.SearchCapacity)
	assert.Equal(t, 50, cfg.History.WatchCapacity)
	assert.Equal(t, "q", cfg.Keys.Bindings.Quit)
	assert.NotEmpty(t, cfg.Database.Path)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
[api]
key = "secret-key"
default_term = "popular"
feed_page_size = 12
search_page_size = 24
related_limit = 15
http_timeout = "45s"

[history]
search_capacity = 5
watch_capacity = 25

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.API.Key)
	assert.Equal(t, "popular", cfg.API.DefaultTerm)
	assert.Equal(t, 12, cfg.API.FeedPageSize)
	assert.Equal(t, 45*time.Second, cfg.API.HTTPTimeout)
	assert.Equal(t, 5, cfg.History.SearchCapacity)
	assert.Equal(t, 25, cfg.History.WatchCapacity)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched sections keep their defaults
	assert.Equal(t, "ctrl", cfg.Keys.Modifier)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, "[api\nnot toml")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_ProducesParseableTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := defaultConfig()
	cfg.API.Key = "saved-key"
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, toml.Unmarshal(data, &parsed))

	api, ok := parsed["api"].(map[string]any)
	require.True(t, ok, "saved config must have an [api] table")
	assert.Equal(t, "saved-key", api["key"])
	assert.Equal(t, "30s", api["http_timeout"], "durations are written as strings")
}

func TestSave_LoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	original := defaultConfig()
	original.API.Key = "round-trip"
	original.API.FeedPageSize = 18
	original.History.WatchCapacity = 99
	require.NoError(t, Save(original, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "round-trip", loaded.API.Key)
	assert.Equal(t, 18, loaded.API.FeedPageSize)
	assert.Equal(t, 99, loaded.History.WatchCapacity)
	assert.Equal(t, original.API.HTTPTimeout, loaded.API.HTTPTimeout)
	assert.Equal(t, original.Keys.Bindings, loaded.Keys.Bindings)
}

func TestGenerateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	require.NoError(t, GenerateDefaultConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.API.FeedPageSize)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded := expandPath("~/somewhere/db")
	assert.Equal(t, filepath.Join(home, "somewhere", "db"), expanded)

	abs := expandPath("/already/absolute")
	assert.Equal(t, "/already/absolute", abs)

	assert.Equal(t, "", expandPath(""))
}

func TestWatch_MissingFileIsNoop(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "absent.toml"), func(*Config) {
		t.Error("onChange must not fire for an absent file")
	})
	assert.NoError(t, err)
}
