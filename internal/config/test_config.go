package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:0",
			HTTPTimeout:    5 * time.Second,
			UserAgent:      "streamix-test/1.0",
			DefaultTerm:    "trending",
			FeedPageSize:   24,
			SearchPageSize: 24,
			RelatedLimit:   15,
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		History: HistoryConfig{
			SearchCapacity: 10,
			WatchCapacity:  50,
		},
		UI:     defaultConfig().UI,
		Player: defaultConfig().Player,
		Keys:   defaultConfig().Keys,
		Log:    LogConfig{Level: "off"},
	}
}
