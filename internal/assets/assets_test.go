package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLoadSearchesRootsInOrder(t *testing.T) {
	m := NewManager()
	m.AddFS("mod", fstest.MapFS{
		"images/bg.png": {Data: []byte("mod bg")},
	})
	m.AddFS("base", fstest.MapFS{
		"images/bg.png":     {Data: []byte("base bg")},
		"sounds/confirm.wav": {Data: []byte("base confirm")},
	})

	tests := []struct {
		path string
		want string
	}{
		{"images/bg.png", "mod bg"},
		{"sounds/confirm.wav", "base confirm"},
		{"./sounds/confirm.wav", "base confirm"},
		{"images/../sounds/confirm.wav", "base confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			data, err := m.Load(tt.path)
			if err != nil {
				t.Fatalf("Load(%q): %v", tt.path, err)
			}
			if string(data) != tt.want {
				t.Errorf("Load(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{})

	_, err := m.Load("images/missing.png")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadRejectsEscapingPaths(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{"a.png": {Data: []byte("a")}})

	for _, p := range []string{"../a.png", "", "."} {
		if _, err := m.Load(p); err == nil {
			t.Errorf("Load(%q) should fail", p)
		}
	}
}

func TestLoadCaches(t *testing.T) {
	fsys := fstest.MapFS{"a.txt": {Data: []byte("first")}}
	m := NewManager()
	m.AddFS("base", fsys)

	if _, err := m.Load("a.txt"); err != nil {
		t.Fatal(err)
	}
	fsys["a.txt"] = &fstest.MapFile{Data: []byte("second")}

	data, err := m.Load("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("expected cached contents, got %q", data)
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("cache stats = %d hits, %d misses, want 1 and 1", hits, misses)
	}
}

func TestAddRootAndAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "music", "theme.ogg")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("ogg"), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.AddRoot(dir); err != nil {
		t.Fatalf("AddRoot: %v", err)
	}
	if got := m.Roots(); len(got) != 1 || got[0] != dir {
		t.Errorf("Roots() = %v", got)
	}

	for _, p := range []string{"music/theme.ogg", file} {
		data, err := m.Load(p)
		if err != nil {
			t.Fatalf("Load(%q): %v", p, err)
		}
		if string(data) != "ogg" {
			t.Errorf("Load(%q) = %q", p, data)
		}
	}

	if _, err := m.Load(filepath.Join(dir, "nope.ogg")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing absolute path, got %v", err)
	}
}

func TestAddRootErrors(t *testing.T) {
	m := NewManager()
	if err := m.AddRoot(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(file); err == nil {
		t.Error("expected error for a regular file")
	}
}

func TestCloseClearsCache(t *testing.T) {
	m := NewManager()
	m.AddFS("base", fstest.MapFS{"a.txt": {Data: []byte("a")}})
	if _, err := m.Load("a.txt"); err != nil {
		t.Fatal(err)
	}

	m.Close()
	if _, err := m.Load("a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Close, got %v", err)
	}
}
