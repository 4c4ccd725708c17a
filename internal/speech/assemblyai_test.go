package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestAssemblyAI_NoKey(t *testing.T) {
	a := NewAssemblyAITranscriber("")
	if _, err := a.Transcribe(context.Background(), []byte{1}, "audio/wav"); err == nil {
		t.Fatalf("expected error with missing key")
	}
}

func TestAssemblyAI_EmptyAudio(t *testing.T) {
	a := NewAssemblyAITranscriber("key")
	if _, err := a.Transcribe(context.Background(), nil, "audio/wav"); err == nil {
		t.Fatalf("expected error with empty audio")
	}
}

func TestAssemblyAI_UploadCreatePoll(t *testing.T) {
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			if r.Header.Get("Authorization") != "key" {
				t.Errorf("missing auth header on upload")
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/u1"})
		case r.Method == http.MethodPost && r.URL.Path == "/transcript":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["audio_url"] != "https://cdn.example/u1" {
				t.Errorf("unexpected audio_url %q", body["audio_url"])
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "queued"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/transcript/"):
			if atomic.AddInt32(&polls, 1) < 2 {
				_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "processing"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "completed", "text": " I built it in Go. "})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewAssemblyAITranscriber("key")
	a.BaseURL = srv.URL
	a.PollInterval = 5 * time.Millisecond

	got, err := a.Transcribe(context.Background(), []byte{0, 1, 2}, "audio/wav")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "I built it in Go." {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestAssemblyAI_JobError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/upload":
			_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/u1"})
		case r.URL.Path == "/transcript" && r.Method == http.MethodPost:
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "queued"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "error", "error": "bad audio"})
		}
	}))
	defer srv.Close()

	a := NewAssemblyAITranscriber("key")
	a.BaseURL = srv.URL
	a.PollInterval = 5 * time.Millisecond

	if _, err := a.Transcribe(context.Background(), []byte{0}, "audio/wav"); err == nil {
		t.Fatalf("expected job error")
	}
}

func TestAssemblyAI_ContextCancelStopsPolling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload":
			_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/u1"})
		case "/transcript":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "queued"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "t1", "status": "processing"})
		}
	}))
	defer srv.Close()

	a := NewAssemblyAITranscriber("key")
	a.BaseURL = srv.URL
	a.PollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	if _, err := a.Transcribe(ctx, []byte{0}, "audio/wav"); err == nil {
		t.Fatalf("expected context error")
	}
}
