package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "too-many-chats-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// WriteChatFiles creates empty .jsonl chat files for a character under a
// chats directory laid out the way the host stores them.
func WriteChatFiles(t *testing.T, chatsDir, character string, names ...string) {
	t.Helper()
	dir := filepath.Join(chatsDir, character)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create chat dir: %v", err)
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
			t.Fatalf("Failed to write chat file %s: %v", name, err)
		}
	}
}

// RemoveChatFile deletes one chat file.
func RemoveChatFile(t *testing.T, chatsDir, character, name string) {
	t.Helper()
	if err := os.Remove(filepath.Join(chatsDir, character, name)); err != nil {
		t.Fatalf("Failed to remove chat file %s: %v", name, err)
	}
}
