package clients

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ArchiveClient keeps local copies of generated artifacts (receipt images,
// master snapshots) so an administrator can audit past transactions even if
// the chat history is gone.
type ArchiveClient struct {
	BaseDir string
}

// NewArchive creates an archive client; baseDir will be created if missing.
func NewArchive(baseDir string) (*ArchiveClient, error) {
	if baseDir == "" {
		baseDir = "./archive"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure archive dir %q: %w", baseDir, err)
	}
	return &ArchiveClient{BaseDir: baseDir}, nil
}

// Save writes data under a unique name (random prefix keeps concurrent saves
// of the same receipt from colliding) and returns the final file name.
func (a *ArchiveClient) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	// sanitize provided filename to avoid path traversal
	fileName = filepath.Base(fileName)
	final := fmt.Sprintf("%s_%s", uuid.NewString(), fileName)

	path := filepath.Join(a.BaseDir, final)
	// write file atomically
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize archive file: %w", err)
	}

	return final, nil
}

// Path returns the absolute location of an archived file.
func (a *ArchiveClient) Path(fileName string) string {
	return filepath.Join(a.BaseDir, filepath.Base(fileName))
}

// CleanupOlderThan deletes archived files older than the given duration.
func (a *ArchiveClient) CleanupOlderThan(d time.Duration) error {
	now := time.Now()
	return filepath.WalkDir(a.BaseDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) > d {
			_ = os.Remove(path) // best-effort
		}
		return nil
	})
}
