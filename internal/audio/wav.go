package audio

import (
	"encoding/binary"
	"fmt"
)

// WAVFormat describes the PCM layout of a decoded WAV file.
type WAVFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DecodeWAV parses a PCM WAV file and returns its format and raw sample data.
// Only uncompressed 16-bit PCM is supported; that covers the bundled
// sound-effect assets.
func DecodeWAV(data []byte) (WAVFormat, []byte, error) {
	if len(data) < 44 {
		return WAVFormat{}, nil, fmt.Errorf("wav file too short (%d bytes)", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAVFormat{}, nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var format WAVFormat
	haveFmt := false

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 || body+16 > len(data) {
				return WAVFormat{}, nil, fmt.Errorf("invalid fmt chunk")
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return WAVFormat{}, nil, fmt.Errorf("unsupported wav encoding %d (PCM only)", audioFormat)
			}
			format = WAVFormat{
				Channels:      int(binary.LittleEndian.Uint16(data[body+2 : body+4])),
				SampleRate:    int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				BitsPerSample: int(binary.LittleEndian.Uint16(data[body+14 : body+16])),
			}
			if format.BitsPerSample != 16 {
				return WAVFormat{}, nil, fmt.Errorf("unsupported bit depth %d (16-bit only)", format.BitsPerSample)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return WAVFormat{}, nil, fmt.Errorf("data chunk before fmt chunk")
			}
			end := body + chunkSize
			if end > len(data) {
				end = len(data)
			}
			return format, data[body:end], nil
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	return WAVFormat{}, nil, fmt.Errorf("data chunk not found")
}

// EncodeWAV wraps raw 16-bit PCM in a minimal WAV container. Used by tests
// and debugging dumps.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	out := make([]byte, 0, 44+len(pcm))

	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	byteRate := uint32(sampleRate * channels * 2)
	blockAlign := uint16(channels * 2)

	out = append(out, "RIFF"...)
	out = append(out, u32(uint32(36+len(pcm)))...)
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = append(out, u32(16)...)
	out = append(out, u16(1)...) // PCM
	out = append(out, u16(uint16(channels))...)
	out = append(out, u32(uint32(sampleRate))...)
	out = append(out, u32(byteRate)...)
	out = append(out, u16(blockAlign)...)
	out = append(out, u16(16)...)
	out = append(out, "data"...)
	out = append(out, u32(uint32(len(pcm)))...)
	out = append(out, pcm...)

	return out
}

// NormalizePCM converts decoded WAV audio to the pipeline format: mono at
// the target sample rate, 16-bit.
func NormalizePCM(pcm []byte, format WAVFormat, targetRate int) []byte {
	samples := BytesToSamples(pcm)
	samples = MonoMix(samples, format.Channels)
	samples = Resample(samples, format.SampleRate, targetRate)
	return SamplesToBytes(samples)
}
