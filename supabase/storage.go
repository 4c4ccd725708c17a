package supabase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

type Config struct {
	URL            string
	ServiceRoleKey string
	Bucket         string
}

// Storage uploads interview transcripts to a Supabase storage bucket.
type Storage struct {
	client *supabase.Client
	bucket string
}

func New(config Config) (*Storage, error) {
	client, err := supabase.NewClient(config.URL, config.ServiceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &Storage{client: client, bucket: config.Bucket}, nil
}

// SaveTranscript uploads the transcript and returns its object key.
func (s *Storage) SaveTranscript(ctx context.Context, sessionID string, text []byte) (string, error) {
	key := fmt.Sprintf("transcripts/interview_%s.txt", sessionID)
	if _, err := s.client.Storage.UploadFile(s.bucket, key, bytes.NewReader(text)); err != nil {
		return "", fmt.Errorf("upload transcript: %w", err)
	}
	return key, nil
}
