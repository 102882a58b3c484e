package media

import (
	"runtime"
	"testing"

	"github.com/streamix/streamix/internal/config"
)

func TestFindCommand(t *testing.T) {
	tests := []struct {
		name     string
		commands []string
		validate func(result string) bool
	}{
		{
			name:     "empty list returns empty",
			commands: []string{},
			validate: func(result string) bool {
				return result == ""
			},
		},
		{
			name:     "non-existent commands return empty",
			commands: []string{"nonexistent1", "nonexistent2", "nonexistent3"},
			validate: func(result string) bool {
				return result == ""
			},
		},
		{
			name:     "common command found",
			commands: []string{"nonexistent", "sh", "alsononexistent"},
			validate: func(result string) bool {
				return result == "sh"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := findCommand(tt.commands...)
			if !tt.validate(result) {
				t.Errorf("findCommand(%v) validation failed, got: %s", tt.commands, result)
			}
		})
	}
}

func TestNewLauncher(t *testing.T) {
	cfg := &config.Config{
		Player: config.PlayerConfig{
			Video:         []string{"mpv", "vlc"},
			DefaultOpener: "open",
		},
	}
	launcher := NewLauncher(cfg)

	if launcher == nil {
		t.Fatal("NewLauncher() returned nil")
	}

	// The chosen player depends on what is installed, but the launcher
	// must always fall back to something
	if launcher.Player() == "" {
		t.Error("NewLauncher() did not pick a player or opener")
	}
}

func TestNewLauncher_FallsBackToDefaultOpener(t *testing.T) {
	cfg := &config.Config{
		Player: config.PlayerConfig{
			Video:         []string{"definitely-not-installed-player"},
			DefaultOpener: "my-opener",
		},
	}
	launcher := NewLauncher(cfg)

	if launcher.Player() != "my-opener" {
		t.Errorf("Player() = %s, want my-opener", launcher.Player())
	}
}

func TestGetDefaultOpener(t *testing.T) {
	opener := getDefaultOpener()

	expectedOpeners := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	if opener == "" {
		t.Error("getDefaultOpener() returned empty string")
	}

	if expected, ok := expectedOpeners[runtime.GOOS]; ok {
		if opener != expected {
			t.Errorf("getDefaultOpener() on %s = %s, want %s", runtime.GOOS, opener, expected)
		}
	}
}
