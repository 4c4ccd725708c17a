package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress string

	AssemblyAIKey string
	DeepgramKey   string
	DeepgramVoice string

	GenerationKey     string
	GenerationModelID string
	GenerationBaseURL string

	SupabaseURL            string
	SupabaseServiceRoleKey string
	SupabaseBucket         string

	TranscriptDir    string
	QuestionBankPath string

	MaxQuestions       int
	TranscribeWorkers  int
	PrepareLookahead   int
	SessionIdleTimeout time.Duration
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	assemblyAIKey := os.Getenv("ASSEMBLYAI_API_KEY")
	if assemblyAIKey == "" {
		log.Println("Warning: ASSEMBLYAI_API_KEY not set - answers will be recorded without transcription")
	}

	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	if deepgramKey == "" {
		log.Println("Warning: DEEPGRAM_API_KEY not set - questions will be delivered text-only")
	}

	genKey := os.Getenv("GENERATION_API_KEY")
	genModel := os.Getenv("GENERATION_MODEL_ID")
	if genModel == "" {
		genModel = "gpt-oss-120b"
	}
	genBase := os.Getenv("GENERATION_BASE_URL")
	if genBase == "" {
		genBase = "https://api.cerebras.ai/v1"
	}
	if genKey == "" {
		log.Println("Warning: GENERATION_API_KEY not set - dynamic questions fall back to the canned bank")
	}

	cfg := Config{
		HTTPAddress:            addr,
		AssemblyAIKey:          assemblyAIKey,
		DeepgramKey:            deepgramKey,
		DeepgramVoice:          getEnv("DEEPGRAM_VOICE", "aura-2-thalia-en"),
		GenerationKey:          genKey,
		GenerationModelID:      genModel,
		GenerationBaseURL:      genBase,
		SupabaseURL:            os.Getenv("SUPABASE_URL"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:         getEnv("SUPABASE_BUCKET", "interview-transcripts"),
		TranscriptDir:          getEnv("TRANSCRIPT_DIR", "."),
		QuestionBankPath:       getEnv("QUESTION_BANK_PATH", "config/questions.yaml"),
		MaxQuestions:           getEnvInt("MAX_QUESTIONS", 15),
		TranscribeWorkers:      getEnvInt("TRANSCRIBE_WORKERS", 2),
		PrepareLookahead:       getEnvInt("PREPARE_LOOKAHEAD", 2),
		SessionIdleTimeout:     getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
	}

	log.Printf("config: HTTP_ADDRESS=%s max_questions=%d workers=%d", cfg.HTTPAddress, cfg.MaxQuestions, cfg.TranscribeWorkers)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, defaultValue)
		return defaultValue
	}
	return d
}
