package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", "")
	os.Setenv("GENERATION_MODEL_ID", "")
	os.Setenv("MAX_QUESTIONS", "")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.GenerationModelID == "" {
		t.Fatalf("expected default generation model id")
	}
	if cfg.MaxQuestions != 15 {
		t.Fatalf("expected default max questions 15, got %d", cfg.MaxQuestions)
	}
	if cfg.TranscribeWorkers != 2 {
		t.Fatalf("expected default worker count 2, got %d", cfg.TranscribeWorkers)
	}
	// must point at the shipped bank file relative to the repo root
	if cfg.QuestionBankPath != "config/questions.yaml" {
		t.Fatalf("expected default bank path config/questions.yaml, got %q", cfg.QuestionBankPath)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	os.Setenv("MAX_QUESTIONS", "banana")
	os.Setenv("SESSION_IDLE_TIMEOUT", "-5m")
	defer os.Unsetenv("MAX_QUESTIONS")
	defer os.Unsetenv("SESSION_IDLE_TIMEOUT")
	cfg := Load()
	if cfg.MaxQuestions != 15 {
		t.Fatalf("expected fallback max questions, got %d", cfg.MaxQuestions)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("expected fallback idle timeout, got %s", cfg.SessionIdleTimeout)
	}
}
