package audio

import (
	"math"
)

// BytesToSamples converts little-endian 16-bit PCM bytes to samples.
// A trailing odd byte is ignored.
func BytesToSamples(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(pcm[i*2]) | int16(pcm[i*2+1])<<8
	}
	return samples
}

// SamplesToBytes converts samples to little-endian 16-bit PCM bytes.
func SamplesToBytes(samples []int16) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		pcm[i*2] = byte(s)
		pcm[i*2+1] = byte(s >> 8)
	}
	return pcm
}

// Resample converts samples from inputRate to outputRate using linear
// interpolation. Good enough for speech; not a sinc resampler.
func Resample(samples []int16, inputRate, outputRate int) []int16 {
	if inputRate == outputRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(outputRate) / float64(inputRate)
	out := make([]int16, int(float64(len(samples))*ratio))

	for i := range out {
		srcPos := float64(i) / ratio
		idx0 := int(srcPos)
		idx1 := idx0 + 1
		if idx1 >= len(samples) {
			idx1 = len(samples) - 1
		}
		frac := srcPos - float64(idx0)
		out[i] = int16(float64(samples[idx0])*(1.0-frac) + float64(samples[idx1])*frac)
	}
	return out
}

// PitchShift shifts pitch by the given number of semitones using the
// sample-rate trick: relabel the buffer at rate*2^(semitones/12), then
// resample back to rate. Duration changes along with pitch; this is a lossy
// approximation, not a pitch-preserving shift.
func PitchShift(samples []int16, rate int, semitones float64) []int16 {
	if semitones == 0 {
		return samples
	}
	shifted := int(float64(rate) * math.Pow(2, semitones/12.0))
	return Resample(samples, shifted, rate)
}

// Stretch changes playback speed by relabeling the buffer at rate*factor and
// resampling back to rate. factor < 1 slows speech down (longer output).
// Applied after PitchShift for the santa voice; the order matters.
func Stretch(samples []int16, rate int, factor float64) []int16 {
	if factor == 1.0 || factor <= 0 {
		return samples
	}
	stretched := int(float64(rate) * factor)
	return Resample(samples, stretched, rate)
}

// RMS returns the root mean square of the samples, used for silence and
// speech-energy detection.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Normalize scales samples down so the peak does not exceed maxAmplitude.
// Samples already within range are returned unchanged.
func Normalize(samples []int16, maxAmplitude int16) []int16 {
	peak := int16(0)
	for _, s := range samples {
		if s == math.MinInt16 {
			peak = math.MaxInt16
			break
		}
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak <= maxAmplitude {
		return samples
	}

	ratio := float64(maxAmplitude) / float64(peak)
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = int16(float64(s) * ratio)
	}
	return out
}

// MonoMix downmixes interleaved multi-channel samples to mono by averaging.
func MonoMix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}
	out := make([]int16, len(samples)/channels)
	for i := range out {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += int(samples[i*channels+c])
		}
		out[i] = int16(sum / channels)
	}
	return out
}
