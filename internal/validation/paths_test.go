package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandAndValidatePath(t *testing.T) {
	ph := NewPathHandler()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "absolute path passes through",
			input: "/var/lib/streamix/db",
			want:  "/var/lib/streamix/db",
		},
		{
			name:  "tilde expansion",
			input: "~/.streamix.db",
			want:  filepath.Join(home, ".streamix.db"),
		},
		{
			name:  "redundant separators cleaned",
			input: "/var//lib/./streamix",
			want:  "/var/lib/streamix",
		},
		{name: "empty path", input: "", wantErr: true},
		{name: "null byte", input: "/tmp/db\x00", wantErr: true},
		{name: "bare tilde user", input: "~root/db", wantErr: true},
		{name: "traversal", input: "/var/lib/../../etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ph.ExpandAndValidatePath(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExpandAndValidatePath(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandAndValidatePath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandAndValidatePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandAndValidatePath_TooLong(t *testing.T) {
	ph := NewPathHandler()

	if _, err := ph.ExpandAndValidatePath("/" + strings.Repeat("a", ph.MaxPathLength)); err == nil {
		t.Error("expected error for overlong path")
	}
}

func TestDBPath(t *testing.T) {
	ph := NewPathHandler()

	t.Run("default location", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Fatal(err)
		}

		got, err := ph.DBPath("")
		if err != nil {
			t.Fatalf("DBPath(\"\") error = %v", err)
		}
		if got != filepath.Join(home, ".streamix.db") {
			t.Errorf("DBPath(\"\") = %q", got)
		}
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.db")
		got, err := ph.DBPath(path)
		if err != nil {
			t.Fatalf("DBPath(%q) error = %v", path, err)
		}
		if got != path {
			t.Errorf("DBPath(%q) = %q", path, got)
		}
	})

	t.Run("directory rejected", func(t *testing.T) {
		if _, err := ph.DBPath(t.TempDir()); err == nil {
			t.Error("expected error when path is a directory")
		}
	})
}

func TestIndexPath(t *testing.T) {
	ph := NewPathHandler()

	t.Run("explicit directory accepted", func(t *testing.T) {
		dir := t.TempDir()
		got, err := ph.IndexPath(dir)
		if err != nil {
			t.Fatalf("IndexPath(%q) error = %v", dir, err)
		}
		if got != dir {
			t.Errorf("IndexPath(%q) = %q", dir, got)
		}
	})

	t.Run("regular file rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.bleve")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ph.IndexPath(path); err == nil {
			t.Error("expected error when index path is a regular file")
		}
	})
}

func TestEnsureDirectory(t *testing.T) {
	ph := NewPathHandler()

	t.Run("creates missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir")
		got, err := ph.EnsureDirectory(path)
		if err != nil {
			t.Fatalf("EnsureDirectory(%q) error = %v", path, err)
		}
		info, err := os.Stat(got)
		if err != nil || !info.IsDir() {
			t.Errorf("EnsureDirectory did not create %q", got)
		}
	})

	t.Run("file in the way", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "occupied")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ph.EnsureDirectory(path); err == nil {
			t.Error("expected error when a file occupies the path")
		}
	})
}
