package media

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// WriteWAV wraps raw PCM16LE samples in a minimal RIFF/WAVE header.
func WriteWAV(pcm []byte, sampleRate, channels int) []byte {
	var buf bytes.Buffer
	dataLen := uint32(len(pcm))
	byteRate := uint32(sampleRate * channels * 2)
	blockAlign := uint16(channels * 2)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(pcm)
	return buf.Bytes()
}

// ParseWAV extracts the PCM payload and format from a RIFF/WAVE byte stream.
// Only uncompressed 16-bit PCM is accepted.
func ParseWAV(data []byte) (pcm []byte, sampleRate, channels int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("not a RIFF/WAVE stream")
	}
	pos := 12
	var haveFmt bool
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkLen > len(data) {
			chunkLen = len(data) - body
		}
		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, 0, 0, fmt.Errorf("short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, 0, 0, fmt.Errorf("unsupported WAV format code %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != 16 {
				return nil, 0, 0, fmt.Errorf("unsupported WAV bit depth %d", bits)
			}
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkLen]
		}
		// chunks are word-aligned
		pos = body + chunkLen
		if chunkLen%2 == 1 {
			pos++
		}
	}
	if !haveFmt || pcm == nil {
		return nil, 0, 0, fmt.Errorf("missing fmt or data chunk")
	}
	return pcm, sampleRate, channels, nil
}
