package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_SaveTranscript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "transcripts")
	store := NewLocalStore(dir)

	path, err := store.SaveTranscript(context.Background(), "abc-123", []byte("Q1: hi\nA1: hello\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "interview_abc-123.txt") {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Q1: hi\nA1: hello\n" {
		t.Fatalf("content = %q", data)
	}
}
