package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AssemblyAITranscriber transcribes finished recordings through the AssemblyAI
// prerecorded API: upload the audio, create a transcript job, then poll it.
type AssemblyAITranscriber struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string

	// PollInterval controls how often the transcript job is polled.
	PollInterval time.Duration
}

func NewAssemblyAITranscriber(apiKey string) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		HTTPClient:   &http.Client{Timeout: 60 * time.Second},
		BaseURL:      "https://api.assemblyai.com/v2",
		APIKey:       apiKey,
		PollInterval: 1 * time.Second,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (a *AssemblyAITranscriber) Transcribe(ctx context.Context, audio []byte, encodingHint string) (string, error) {
	if a.APIKey == "" {
		return "", fmt.Errorf("assemblyai: API key missing")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("assemblyai: empty audio")
	}

	uploadURL, err := a.upload(ctx, audio, encodingHint)
	if err != nil {
		return "", err
	}

	id, err := a.createTranscript(ctx, uploadURL)
	if err != nil {
		return "", err
	}

	ticker := time.NewTicker(a.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("assemblyai: transcript %s: %w", id, ctx.Err())
		case <-ticker.C:
			tr, err := a.getTranscript(ctx, id)
			if err != nil {
				return "", err
			}
			switch tr.Status {
			case "completed":
				return strings.TrimSpace(tr.Text), nil
			case "error":
				return "", fmt.Errorf("assemblyai: transcript failed: %s", tr.Error)
			}
		}
	}
}

func (a *AssemblyAITranscriber) upload(ctx context.Context, audio []byte, encodingHint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", a.APIKey)
	if encodingHint != "" {
		req.Header.Set("Content-Type", encodingHint)
	} else {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assemblyai: upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("assemblyai: upload: status=%d body=%s", resp.StatusCode, string(b))
	}
	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("assemblyai: upload decode: %w", err)
	}
	if ur.UploadURL == "" {
		return "", fmt.Errorf("assemblyai: upload returned no url")
	}
	return ur.UploadURL, nil
}

func (a *AssemblyAITranscriber) createTranscript(ctx context.Context, audioURL string) (string, error) {
	body, _ := json.Marshal(transcriptRequest{AudioURL: audioURL})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assemblyai: create transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("assemblyai: create transcript: status=%d body=%s", resp.StatusCode, string(b))
	}
	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("assemblyai: create transcript decode: %w", err)
	}
	if tr.ID == "" {
		return "", fmt.Errorf("assemblyai: create transcript returned no id")
	}
	return tr.ID, nil
}

func (a *AssemblyAITranscriber) getTranscript(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", a.APIKey)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assemblyai: poll transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("assemblyai: poll transcript: status=%d body=%s", resp.StatusCode, string(b))
	}
	var tr transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("assemblyai: poll transcript decode: %w", err)
	}
	return &tr, nil
}
