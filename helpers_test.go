package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeBuildHash_StableAndSensitive(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM rust:1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	h1, err := computeBuildHash(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h1) != 12 {
		t.Fatalf("expected 12-char digest, got %q", h1)
	}
	h2, err := computeBuildHash(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("hash not stable: %q vs %q", h1, h2)
	}

	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM rust:2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h3, err := computeBuildHash(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h3 == h1 {
		t.Fatalf("hash did not change with contents")
	}
}

func TestHave(t *testing.T) {
	if !have("sh") {
		t.Fatalf("expected sh in PATH")
	}
	if have("definitely-not-a-real-binary-4729") {
		t.Fatalf("expected lookup failure")
	}
}
