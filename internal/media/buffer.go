package media

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/hraban/opus.v2"
)

// ErrUnsupportedAudio marks container/codec combinations the backend cannot consume.
var ErrUnsupportedAudio = errors.New("unsupported audio encoding")

const (
	MimeWAV  = "audio/wav"
	MimePCM  = "audio/pcm"
	MimeOpus = "audio/opus"

	pcmSampleRate = 16000
)

// Buffer assembles the audio chunks of one answer recording in arrival order.
// Opus packets (one packet per chunk) are decoded to PCM16LE on arrival so the
// assembled payload is always WAV or raw PCM; webm/mp4/ogg containers are
// rejected because they cannot be decoded in-process.
type Buffer struct {
	mime string
	data []byte
	dec  *opus.Decoder
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds one chunk. The newest encoding hint wins, matching how browsers
// report the recorder MIME once per stream.
func (b *Buffer) Append(chunk []byte, mimeType string) error {
	mt := normalizeMime(mimeType)
	switch mt {
	case MimeWAV, MimePCM, "":
		if mt != "" {
			b.mime = mt
		} else if b.mime == "" {
			b.mime = MimeWAV
		}
		b.data = append(b.data, chunk...)
		return nil
	case MimeOpus:
		b.mime = MimePCM
		return b.appendOpus(chunk)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAudio, mimeType)
	}
}

func (b *Buffer) appendOpus(packet []byte) error {
	if len(packet) == 0 {
		return nil
	}
	if b.dec == nil {
		dec, err := opus.NewDecoder(pcmSampleRate, 1)
		if err != nil {
			return fmt.Errorf("opus decoder: %w", err)
		}
		b.dec = dec
	}
	// 120ms is the longest opus frame duration
	samples := make([]int16, pcmSampleRate*120/1000)
	n, err := b.dec.Decode(packet, samples)
	if err != nil {
		return fmt.Errorf("opus decode: %w", err)
	}
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := uint16(samples[i])
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	b.data = append(b.data, out...)
	return nil
}

// Bytes returns the assembled payload in arrival order.
func (b *Buffer) Bytes() []byte { return b.data }

// MIME reports the encoding of the assembled payload.
func (b *Buffer) MIME() string {
	if b.mime == "" {
		return MimeWAV
	}
	return b.mime
}

func (b *Buffer) Len() int { return len(b.data) }

// Reset clears the buffer for the next recording, keeping the decoder.
func (b *Buffer) Reset() {
	b.data = nil
	b.mime = ""
}

// NormalizeForTranscription converts an assembled payload into the WAV payload
// the speech backend requires.
func NormalizeForTranscription(data []byte, mimeType string) ([]byte, string, error) {
	switch normalizeMime(mimeType) {
	case MimeWAV, "":
		if _, _, _, err := ParseWAV(data); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedAudio, err)
		}
		return data, MimeWAV, nil
	case MimePCM:
		return WriteWAV(data, pcmSampleRate, 1), MimeWAV, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedAudio, mimeType)
	}
}

func normalizeMime(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return MimeWAV
	case "audio/pcm", "audio/l16":
		return MimePCM
	case "audio/opus":
		return MimeOpus
	}
	return mt
}
