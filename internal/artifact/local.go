package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes transcripts to a directory on disk. It is the default
// store when no remote bucket is configured.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

// SaveTranscript writes the transcript and returns its path.
func (s *LocalStore) SaveTranscript(ctx context.Context, sessionID string, text []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("interview_%s.txt", sessionID))
	if err := os.WriteFile(path, text, 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
