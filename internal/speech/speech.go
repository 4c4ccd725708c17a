package speech

import "context"

// Synthesizer converts question text into playable audio bytes.
// An error means "no audio"; callers degrade to text-only delivery.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Transcriber converts a finished answer recording into text.
// encodingHint is a MIME type such as "audio/wav".
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, encodingHint string) (string, error)
}
