package clients

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestArchiveSave(t *testing.T) {
	tmpDir := t.TempDir()

	a, err := NewArchive(tmpDir)
	if err != nil {
		t.Fatalf("failed create archive: %v", err)
	}

	content := []byte("png bytes")
	saved, err := a.Save(context.Background(), "receipt 003-0012.png", content)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasSuffix(saved, "_receipt 003-0012.png") {
		t.Fatalf("expected unique prefix before original name, got %s", saved)
	}

	got, err := os.ReadFile(a.Path(saved))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: %s", string(got))
	}
}

func TestArchiveSave_SanitizesPath(t *testing.T) {
	tmpDir := t.TempDir()
	a, _ := NewArchive(tmpDir)

	saved, err := a.Save(context.Background(), "../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if strings.Contains(saved, "/") {
		t.Fatalf("expected sanitized name, got %s", saved)
	}
	if _, err := os.Stat(a.Path(saved)); err != nil {
		t.Fatalf("expected file inside archive dir: %v", err)
	}
}

func TestArchiveCleanupOlderThan(t *testing.T) {
	tmpDir := t.TempDir()
	a, _ := NewArchive(tmpDir)

	oldName, err := a.Save(context.Background(), "old.png", []byte("old"))
	if err != nil {
		t.Fatalf("save old: %v", err)
	}
	newName, err := a.Save(context.Background(), "new.png", []byte("new"))
	if err != nil {
		t.Fatalf("save new: %v", err)
	}

	// age the first file artificially
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(a.Path(oldName), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if err := a.CleanupOlderThan(time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := os.Stat(a.Path(oldName)); !os.IsNotExist(err) {
		t.Fatalf("expected old file removed, stat err=%v", err)
	}
	if _, err := os.Stat(a.Path(newName)); err != nil {
		t.Fatalf("expected new file kept: %v", err)
	}
}
