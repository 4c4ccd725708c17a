package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/girishnp17/Avaa-AI/internal/artifact"
	"github.com/girishnp17/Avaa-AI/internal/config"
	"github.com/girishnp17/Avaa-AI/internal/interview"
	"github.com/girishnp17/Avaa-AI/internal/llm"
	"github.com/girishnp17/Avaa-AI/internal/media"
	"github.com/girishnp17/Avaa-AI/internal/profile"
	"github.com/girishnp17/Avaa-AI/internal/question"
	"github.com/girishnp17/Avaa-AI/internal/speech"
	"github.com/girishnp17/Avaa-AI/internal/transcribe"
)

// The synchronous driver: one terminal, one interview. Each turn prints the
// question, takes a WAV file path as the answer, and moves on while
// transcription runs in the background.
func main() {
	log.SetFlags(log.Ltime)

	resumePath := flag.String("resume", "", "path to resume text file (required)")
	jobPath := flag.String("job", "", "path to job description text file (required)")
	questions := flag.Int("questions", 0, "number of questions (default from env)")
	audioDir := flag.String("audio-dir", "", "write question audio files here (optional)")
	flag.Parse()

	if *resumePath == "" || *jobPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if *questions > 0 {
		cfg.MaxQuestions = *questions
	}

	resumeText, err := os.ReadFile(*resumePath)
	if err != nil {
		log.Fatalf("read resume: %v", err)
	}
	jobText, err := os.ReadFile(*jobPath)
	if err != nil {
		log.Fatalf("read job description: %v", err)
	}

	gen := llm.NewClient(cfg.GenerationBaseURL, cfg.GenerationKey, cfg.GenerationModelID)
	parser := profile.NewParser(gen)

	ctx := context.Background()
	fmt.Println("Parsing resume and job description...")
	prof, err := parser.ParseResume(ctx, string(resumeText))
	if err != nil {
		log.Fatalf("parse resume: %v", err)
	}
	job, err := parser.ParseJob(ctx, string(jobText))
	if err != nil {
		log.Fatalf("parse job description: %v", err)
	}
	fmt.Printf("Candidate: %s | Role: %s\n\n", prof.Name, job.Title)

	bank, err := question.LoadBank(cfg.QuestionBankPath)
	if err != nil {
		log.Fatalf("load question bank: %v", err)
	}
	source := question.NewSource(gen, bank, cfg.MaxQuestions)

	var synth speech.Synthesizer
	if cfg.DeepgramKey != "" && *audioDir != "" {
		synth = speech.NewDeepgramSynthesizer(cfg.DeepgramKey, cfg.DeepgramVoice)
	}
	var stt speech.Transcriber
	if cfg.AssemblyAIKey != "" {
		stt = speech.NewAssemblyAITranscriber(cfg.AssemblyAIKey)
	}

	pool := transcribe.NewPool(cfg.TranscribeWorkers, cfg.MaxQuestions)
	defer pool.Close()

	sess := interview.New(uuid.NewString(), prof, job, interview.Deps{
		Source:    source,
		Synth:     synth,
		STT:       stt,
		Pool:      pool,
		ReportGen: gen,
		Store:     artifact.NewLocalStore(cfg.TranscriptDir),
	}, interview.Options{
		MaxQuestions: cfg.MaxQuestions,
		Lookahead:    cfg.PrepareLookahead,
	})

	runInterview(sess, *audioDir)
}

func runInterview(sess *interview.Session, audioDir string) {
	reader := bufio.NewReader(os.Stdin)

	for {
		pq, err := sess.DeliverQuestion()
		if errors.Is(err, interview.ErrInterviewComplete) {
			break
		}
		if err != nil {
			log.Fatalf("deliver question: %v", err)
		}

		fmt.Printf("Q%d [%s]: %s\n", pq.Ordinal, pq.Category, pq.Text)
		if pq.HasAudio() && audioDir != "" {
			if path, err := saveQuestionAudio(audioDir, pq); err == nil {
				fmt.Printf("  (audio: %s)\n", path)
			}
		}

		audio, mime, done := readAnswer(reader, sess, pq.Ordinal)
		if done {
			break
		}
		if _, err := sess.CaptureAnswer(audio, mime); err != nil {
			fmt.Printf("  capture failed: %v (try again)\n", err)
			continue
		}
		drainReady(sess)
	}

	fmt.Println("\nFinishing interview...")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	result, err := sess.Finish(ctx)
	if err != nil {
		log.Fatalf("finish: %v", err)
	}
	printResult(result)
}

// readAnswer prompts until it gets a readable WAV file or a quit command.
func readAnswer(reader *bufio.Reader, sess *interview.Session, ordinal int) (audio []byte, mime string, done bool) {
	for {
		fmt.Printf("A%d (WAV file path, 'skip', or 'done'): ", ordinal)
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, "", true
		}
		line = strings.TrimSpace(line)
		switch line {
		case "done", "quit":
			return nil, "", true
		case "skip", "":
			fmt.Println("  skipped; the same question stays pending")
			continue
		}
		data, err := os.ReadFile(line)
		if err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		return data, media.MimeWAV, false
	}
}

// drainReady prints transcriptions that finished while the user was answering.
func drainReady(sess *interview.Session) {
	for {
		ans, ready, err := sess.PollTranscription()
		if err != nil || !ready {
			return
		}
		if ans.Failed {
			fmt.Printf("  [Q%d answer unavailable: %s]\n", ans.Ordinal, ans.Text)
		} else {
			fmt.Printf("  [Q%d transcribed: %s]\n", ans.Ordinal, ans.Text)
		}
	}
}

func saveQuestionAudio(dir string, pq interview.PreparedQuestion) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("question_%02d.wav", pq.Ordinal))
	wav := media.WriteWAV(pq.Audio, 24000, 1)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func printResult(result *interview.Result) {
	fmt.Println("\n==================== REPORT ====================")
	fmt.Printf("Overall score: %d/10\n", result.Report.OverallScore)
	if result.Report.Selected {
		fmt.Println("Decision:      SELECTED")
	} else {
		fmt.Println("Decision:      NOT SELECTED")
	}
	if result.Report.SelectionReason != "" {
		fmt.Printf("Reason:        %s\n", result.Report.SelectionReason)
	}
	if result.Report.Summary != "" {
		fmt.Printf("Summary:       %s\n", result.Report.Summary)
	}
	if len(result.Report.Strengths) > 0 {
		fmt.Println("Strengths:")
		for _, s := range result.Report.Strengths {
			fmt.Printf("  - %s\n", s)
		}
	}
	if len(result.Report.ImprovementAreas) > 0 {
		fmt.Println("Improvement areas:")
		for _, s := range result.Report.ImprovementAreas {
			fmt.Printf("  - %s\n", s)
		}
	}
	if result.ArtifactPath != "" {
		fmt.Printf("\nTranscript saved to %s\n", result.ArtifactPath)
	}

	full, err := json.MarshalIndent(result.Report, "", "  ")
	if err == nil {
		fmt.Printf("\nFull report JSON:\n%s\n", full)
	}
}
