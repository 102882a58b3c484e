package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

func TestVersionCommand(t *testing.T) {
	out := captureStdout(t, func() {
		versionCmd.Run(nil, nil)
	})

	// Version is "dev" by default in tests
	if !strings.Contains(out, "streamix dev") {
		t.Errorf("Expected version output to contain 'streamix dev', got: %s", out)
	}
	if !strings.Contains(out, "Terminal video browser") {
		t.Errorf("Expected version output to contain 'Terminal video browser', got: %s", out)
	}
}

func TestConfigGenerateCommand(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, ".config", "streamix", "config.toml")

	t.Setenv("HOME", tmpDir)

	out := captureStdout(t, func() {
		if err := configGenerateCmd.RunE(nil, nil); err != nil {
			t.Errorf("config generate failed: %v", err)
		}
	})

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configFile)
	}
	if !strings.Contains(out, "Generated default configuration at:") {
		t.Errorf("Expected output to contain 'Generated default configuration at:', got: %s", out)
	}
}

func TestConfigPathCommand(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	out := captureStdout(t, func() {
		if err := configPathCmd.RunE(nil, nil); err != nil {
			t.Errorf("config path failed: %v", err)
		}
	})

	expected := filepath.Join(tmpDir, ".config", "streamix", "config.toml")
	if !strings.Contains(out, expected) {
		t.Errorf("Expected output to contain %s, got: %s", expected, out)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"version", "history", "searches", "config"} {
		if !names[want] {
			t.Errorf("Expected root command to have %q subcommand", want)
		}
	}
}
