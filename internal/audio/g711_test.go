package audio

import (
	"math"
	"testing"
)

func TestMulaw_RoundTrip(t *testing.T) {
	// µ-law is lossy; round-tripped samples should land within one
	// quantization step of the original.
	inputs := []int16{0, 33, -33, 100, -100, 1000, -1000, 8000, -8000}

	for _, in := range inputs {
		encoded := linearToMulaw(in)
		decoded := mulawToLinear(encoded)

		diff := math.Abs(float64(decoded) - float64(in))
		// Step size grows with segment; allow the widest step.
		if diff > 256 {
			t.Errorf("sample %d round-tripped to %d (diff %.0f)", in, decoded, diff)
		}
	}
}

func TestMulaw_Clipping(t *testing.T) {
	// Samples beyond the 14-bit clip range should saturate, not wrap.
	hi := mulawToLinear(linearToMulaw(32767))
	lo := mulawToLinear(linearToMulaw(-32768))
	if hi < 8000 {
		t.Errorf("positive saturation decoded to %d", hi)
	}
	if lo > -8000 {
		t.Errorf("negative saturation decoded to %d", lo)
	}
}

func TestEncodeMulaw_Errors(t *testing.T) {
	if _, err := EncodeMulaw(nil, 24000, 8000); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := EncodeMulaw([]byte{1, 2, 3}, 24000, 8000); err == nil {
		t.Error("expected error for odd-length input")
	}
}

func TestEncodeMulaw_Resamples(t *testing.T) {
	pcm := SamplesToBytes(sineWave(440, 24000, 8000))
	out, err := EncodeMulaw(pcm, 24000, 8000)
	if err != nil {
		t.Fatalf("EncodeMulaw: %v", err)
	}
	// 24kHz 16-bit in, 8kHz 8-bit out: one sixth of the byte count.
	if want := len(pcm) / 6; len(out) != want {
		t.Errorf("encoded %d bytes, want %d", len(out), want)
	}
}

func TestDecodeMulaw_RoundTripTone(t *testing.T) {
	orig := sineWave(440, 8000, 8000)
	encoded, err := EncodeMulaw(SamplesToBytes(orig), 8000, 8000)
	if err != nil {
		t.Fatalf("EncodeMulaw: %v", err)
	}
	decodedPCM, err := DecodeMulaw(encoded, 8000, 8000)
	if err != nil {
		t.Fatalf("DecodeMulaw: %v", err)
	}

	decoded := BytesToSamples(decodedPCM)
	got := zeroCrossingFreq(decoded, 8000)
	if math.Abs(got-440) > 15 {
		t.Errorf("decoded tone at %.1fHz, want ~440Hz", got)
	}
}
