package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	f, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() = %v", err)
	}
	if err := f.SetString("peerNetworkId", "OPENLAPS"); err != nil {
		t.Fatalf("SetString() = %v", err)
	}
	if err := f.SetBool("paired", true); err != nil {
		t.Fatalf("SetBool() = %v", err)
	}

	// reopen from disk
	g, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() reopen = %v", err)
	}
	if got := g.GetString("peerNetworkId", ""); got != "OPENLAPS" {
		t.Errorf("GetString() = %q, want %q", got, "OPENLAPS")
	}
	if !g.GetBool("paired", false) {
		t.Error("GetBool(paired) = false after reopen")
	}
}

func TestFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	f, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() = %v", err)
	}
	if got := f.GetString("peerAddress", "fallback"); got != "fallback" {
		t.Errorf("GetString() = %q, want default", got)
	}
	if f.GetBool("paired", false) {
		t.Error("GetBool() = true on empty store")
	}
}

func TestFileRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() = %v", err)
	}
	if err := f.SetBool("paired", true); err != nil {
		t.Fatalf("SetBool() = %v", err)
	}
	if err := f.Remove("paired"); err != nil {
		t.Fatalf("Remove() = %v", err)
	}

	g, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() reopen = %v", err)
	}
	if g.GetBool("paired", false) {
		t.Error("removed key survived reopen")
	}
}

func TestFileNamespaceIsolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	a, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() = %v", err)
	}
	if err := a.SetString("key", "a-value"); err != nil {
		t.Fatalf("SetString() = %v", err)
	}

	b, err := NewFile(path, "calibration")
	if err != nil {
		t.Fatalf("NewFile() = %v", err)
	}
	if got := b.GetString("key", ""); got != "" {
		t.Errorf("namespace leak: GetString() = %q", got)
	}
	if err := b.SetString("key", "b-value"); err != nil {
		t.Fatalf("SetString() = %v", err)
	}

	// the other namespace's value is untouched on disk
	a2, err := NewFile(path, "pairing")
	if err != nil {
		t.Fatalf("NewFile() reopen = %v", err)
	}
	if got := a2.GetString("key", ""); got != "a-value" {
		t.Errorf("GetString() = %q, want %q", got, "a-value")
	}
}

func TestFileRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFile(path, "pairing"); err == nil {
		t.Error("NewFile() accepted a corrupt document")
	}
}
