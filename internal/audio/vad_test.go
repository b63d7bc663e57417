package audio

import (
	"testing"
)

func loudFrame(n int) []int16 {
	frame := make([]int16, n)
	for i := range frame {
		if i%2 == 0 {
			frame[i] = 4000
		} else {
			frame[i] = -4000
		}
	}
	return frame
}

func TestVAD_SpeechStartAndEnd(t *testing.T) {
	v := NewVADDetector(&VADConfig{EnergyThreshold: 500, SilenceFrames: 3, FrameSize: 480})
	silence := make([]int16, 480)

	speaking, started, _ := v.ProcessFrame(loudFrame(480))
	if !speaking || !started {
		t.Fatalf("first loud frame: speaking=%v started=%v, want true/true", speaking, started)
	}

	// Speech persists through short silences.
	for i := 0; i < 2; i++ {
		if speaking, _, ended := v.ProcessFrame(silence); !speaking || ended {
			t.Fatalf("silence frame %d: speaking=%v ended=%v", i, speaking, ended)
		}
	}

	// Third consecutive silent frame ends the utterance.
	speaking, _, ended := v.ProcessFrame(silence)
	if speaking || !ended {
		t.Fatalf("after silence run: speaking=%v ended=%v, want false/true", speaking, ended)
	}
}

func TestVAD_SilenceCounterResetsOnSpeech(t *testing.T) {
	v := NewVADDetector(&VADConfig{EnergyThreshold: 500, SilenceFrames: 2, FrameSize: 480})
	silence := make([]int16, 480)

	v.ProcessFrame(loudFrame(480))
	v.ProcessFrame(silence)
	v.ProcessFrame(loudFrame(480)) // resets the run

	if _, _, ended := v.ProcessFrame(silence); ended {
		t.Error("one silent frame after speech should not end the utterance")
	}
}

func TestVAD_Reset(t *testing.T) {
	v := NewVADDetector(nil)
	v.ProcessFrame(loudFrame(480))
	v.Reset()
	if v.IsSpeaking() {
		t.Error("detector should be idle after Reset")
	}
}
