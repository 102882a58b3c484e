package media

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/streamix/streamix/internal/config"
)

// Launcher opens watch URLs in an external video player.
type Launcher struct {
	player        string
	defaultOpener string
	registry      *PlayerRegistry
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewPlayerRegistry()
	if err != nil {
		// Continue with basic functionality if player definitions can't be loaded
		registry = &PlayerRegistry{players: make(map[string]PlayerDefinition)}
	}

	defaultOpener := cfg.Player.DefaultOpener
	if defaultOpener == "" {
		defaultOpener = getDefaultOpener()
	}

	l := &Launcher{
		defaultOpener: defaultOpener,
		registry:      registry,
	}

	if len(cfg.Player.Video) > 0 {
		l.player = findCommand(cfg.Player.Video...)
	}
	if l.player == "" {
		l.player = l.defaultOpener
	}

	return l
}

// Player reports which command Open will use.
func (l *Launcher) Player() string {
	return l.player
}

func (l *Launcher) Open(url string) error {
	playerName := l.player
	if playerName == "" {
		playerName = l.defaultOpener
	}
	if playerName == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd, err := l.registry.GetCommand(playerName, url)
	if err != nil {
		cmd = exec.Command(playerName, url)
	}

	// Start the player detached
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", playerName, err)
	}

	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
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
