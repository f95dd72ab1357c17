package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedCatalogRenders(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("chess.moved", map[string]any{"Player": "alice", "Move": "e2e4", "Captured": ""})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "alice: e2e4" {
		t.Fatalf("got %q", got)
	}
	if _, err := c.Render("chess.moved", map[string]any{"Player": "alice"}); err == nil {
		t.Fatalf("missing data key should fail")
	}
	if c.Text("does.not.exist", nil) != "does.not.exist" {
		t.Fatalf("Text fallback should return the key")
	}
}

func TestOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("errors:\n  conflict: \"busy, retry\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("errors.conflict", nil); got != "busy, retry" {
		t.Fatalf("override not applied: %q", got)
	}
	if !strings.Contains(c.Text("errors.internal", nil), "went wrong") {
		t.Fatalf("embedded default lost")
	}

	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("errors:\n  conflict: dup\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("duplicate override key accepted")
	}
}

func TestNonStringLeafRejected(t *testing.T) {
	if _, err := parseYAMLToFlat([]byte("a:\n  b: 3\n")); err == nil {
		t.Fatalf("integer leaf accepted")
	}
}
