package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/girishnp17/Avaa-AI/internal/artifact"
	"github.com/girishnp17/Avaa-AI/internal/config"
	"github.com/girishnp17/Avaa-AI/internal/httpserver"
	"github.com/girishnp17/Avaa-AI/internal/interview"
	"github.com/girishnp17/Avaa-AI/internal/llm"
	"github.com/girishnp17/Avaa-AI/internal/profile"
	"github.com/girishnp17/Avaa-AI/internal/question"
	"github.com/girishnp17/Avaa-AI/internal/speech"
	"github.com/girishnp17/Avaa-AI/internal/transcribe"
	"github.com/girishnp17/Avaa-AI/supabase"
)

func main() {
	// Include sub-second precision in all log timestamps
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	cfg := config.Load()

	gen := llm.NewClient(cfg.GenerationBaseURL, cfg.GenerationKey, cfg.GenerationModelID)
	parser := profile.NewParser(gen)

	bank, err := question.LoadBank(cfg.QuestionBankPath)
	if err != nil {
		log.Fatalf("load question bank: %v", err)
	}
	source := question.NewSource(gen, bank, cfg.MaxQuestions)

	var synth speech.Synthesizer
	if cfg.DeepgramKey != "" {
		synth = speech.NewDeepgramSynthesizer(cfg.DeepgramKey, cfg.DeepgramVoice)
	}
	var stt speech.Transcriber
	if cfg.AssemblyAIKey != "" {
		stt = speech.NewAssemblyAITranscriber(cfg.AssemblyAIKey)
	}

	var store interview.ArtifactStore = artifact.NewLocalStore(cfg.TranscriptDir)
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceRoleKey != "" {
		remote, err := supabase.New(supabase.Config{
			URL:            cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseServiceRoleKey,
			Bucket:         cfg.SupabaseBucket,
		})
		if err != nil {
			log.Fatalf("supabase storage: %v", err)
		}
		store = remote
	}

	pool := transcribe.NewPool(cfg.TranscribeWorkers, cfg.MaxQuestions)
	defer pool.Close()

	registry := interview.NewRegistry(cfg.SessionIdleTimeout)
	registry.StartJanitor(time.Minute)
	defer registry.Stop()

	srv := httpserver.New(httpserver.Deps{
		Registry: registry,
		Parser:   parser,
		NewSession: func(id string, prof profile.Profile, job profile.JobContext) *interview.Session {
			return interview.New(id, prof, job, interview.Deps{
				Source:    source,
				Synth:     synth,
				STT:       stt,
				Pool:      pool,
				ReportGen: gen,
				Store:     store,
			}, interview.Options{
				MaxQuestions: cfg.MaxQuestions,
				Lookahead:    cfg.PrepareLookahead,
			})
		},
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in background
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddress)
		serverErrors <- server.ListenAndServe()
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-sigChan:
		log.Printf("shutdown signal received: %v", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = server.Close()
	}
}
