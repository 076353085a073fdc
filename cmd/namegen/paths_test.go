package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveModelPaths(t *testing.T) {
	t.Run("explicit paths win", func(t *testing.T) {
		t.Setenv(envNamegenModelDir, "")
		w, v, err := resolveModelPaths(" a/model.safetensors ", "b/chars.txt", "ignored")
		if err != nil {
			t.Fatalf("resolveModelPaths returned error: %v", err)
		}
		if w != filepath.Clean("a/model.safetensors") || v != filepath.Clean("b/chars.txt") {
			t.Fatalf("unexpected paths: %q %q", w, v)
		}
	})

	t.Run("model dir fills defaults", func(t *testing.T) {
		dir := t.TempDir()
		w, v, err := resolveModelPaths("", "", dir)
		if err != nil {
			t.Fatalf("resolveModelPaths returned error: %v", err)
		}
		if w != filepath.Join(dir, defaultWeightsFile) {
			t.Fatalf("unexpected weights path: %q", w)
		}
		if v != filepath.Join(dir, defaultVocabFile) {
			t.Fatalf("unexpected vocab path: %q", v)
		}
	})

	t.Run("one explicit path with model dir", func(t *testing.T) {
		dir := t.TempDir()
		custom := filepath.Join(t.TempDir(), "letters.txt")
		w, v, err := resolveModelPaths("", custom, dir)
		if err != nil {
			t.Fatalf("resolveModelPaths returned error: %v", err)
		}
		if w != filepath.Join(dir, defaultWeightsFile) || v != custom {
			t.Fatalf("unexpected paths: %q %q", w, v)
		}
	})

	t.Run("env model dir", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(envNamegenModelDir, dir)
		w, _, err := resolveModelPaths("", "", "")
		if err != nil {
			t.Fatalf("resolveModelPaths returned error: %v", err)
		}
		if w != filepath.Join(dir, defaultWeightsFile) {
			t.Fatalf("unexpected weights path: %q", w)
		}
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(envNamegenModelDir, "")
		if _, _, err := resolveModelPaths("", "", ""); err == nil {
			t.Fatalf("expected error without any model location")
		}
	})

	t.Run("dir is a file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, _, err := resolveModelPaths("", "", f); err == nil {
			t.Fatalf("expected error for non-directory model dir")
		}
	})
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"  ", 1, false},
		{"0", 0, false},
		{"25", 25, false},
		{" 7 ", 7, false},
		{"-1", 0, true},
		{"three", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseCount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
