package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	History  HistoryConfig  `mapstructure:"history"`
	UI       UIConfig       `mapstructure:"ui"`
	Player   PlayerConfig   `mapstructure:"player"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Key            string        `mapstructure:"key"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	DefaultTerm    string        `mapstructure:"default_term"`
	FeedPageSize   int           `mapstructure:"feed_page_size"`
	SearchPageSize int           `mapstructure:"search_page_size"`
	RelatedLimit   int           `mapstructure:"related_limit"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type HistoryConfig struct {
	SearchCapacity int `mapstructure:"search_capacity"`
	WatchCapacity  int `mapstructure:"watch_capacity"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type PlayerConfig struct {
	Video         []string `mapstructure:"video"`
	DefaultOpener string   `mapstructure:"default_opener"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit         string `mapstructure:"quit"`
	Search       string `mapstructure:"search"`
	History      string `mapstructure:"history"`
	Channel      string `mapstructure:"channel"`
	Refresh      string `mapstructure:"refresh"`
	OpenVideo    string `mapstructure:"open_video"`
	RemoveEntry  string `mapstructure:"remove_entry"`
	ClearHistory string `mapstructure:"clear_history"`
	Back         string `mapstructure:"back"`
	Help         string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".streamix.db")
	indexPath := filepath.Join(homeDir, ".streamix", "index.bleve")

	return &Config{
		API: APIConfig{
			BaseURL:        "https://www.googleapis.com/youtube/v3",
			HTTPTimeout:    30 * time.Second,
			UserAgent:      "streamix/1.0 (https://github.com/streamix/streamix)",
			DefaultTerm:    "trending",
			FeedPageSize:   24,
			SearchPageSize: 24,
			RelatedLimit:   15,
		},
		Database: DatabaseConfig{
			Path:        dbPath,
			Timeout:     1 * time.Second,
			SearchIndex: indexPath,
		},
		History: HistoryConfig{
			SearchCapacity: 10,
			WatchCapacity:  50,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF4D4D",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#10101A",
				Surface:    "#1A1A2E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
		},
		Player: PlayerConfig{
			Video:         defaultVideoPlayers(),
			DefaultOpener: getDefaultOpener(),
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:         "q",
				Search:       "s",
				History:      "h",
				Channel:      "u",
				Refresh:      "r",
				OpenVideo:    "o",
				RemoveEntry:  "x",
				ClearHistory: "d",
				Back:         "esc",
				Help:         "?",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

func defaultVideoPlayers() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"iina", "mpv", "vlc"}
	case "windows":
		return []string{"mpv", "vlc"}
	default:
		return []string{"mpv", "vlc", "mplayer"}
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("api", cfg.API)
	v.SetDefault("database", cfg.Database)
	v.SetDefault("history", cfg.History)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("player", cfg.Player)
	v.SetDefault("keys", cfg.Keys)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "streamix")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STREAMIX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// Watch reloads the config file on change and hands the fresh Config to
// onChange. Errors during a reload keep the previous state; the watcher
// lives for the life of the process.
func Watch(configPath string, onChange func(*Config)) error {
	if configPath == "" {
		homeDir, _ := os.UserHomeDir()
		configPath = filepath.Join(homeDir, ".config", "streamix", "config.toml")
	}
	if _, err := os.Stat(configPath); err != nil {
		// nothing to watch yet
		return nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config for watch: %w", err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := Load(configPath)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":         config.API.BaseURL,
		"key":              config.API.Key,
		"http_timeout":     config.API.HTTPTimeout.String(),
		"user_agent":       config.API.UserAgent,
		"default_term":     config.API.DefaultTerm,
		"feed_page_size":   config.API.FeedPageSize,
		"search_page_size": config.API.SearchPageSize,
		"related_limit":    config.API.RelatedLimit,
	}

	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	v.Set("api", apiCfg)
	v.Set("database", dbCfg)
	v.Set("history", config.History)
	v.Set("ui", config.UI)
	v.Set("player", config.Player)
	v.Set("keys", config.Keys)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
