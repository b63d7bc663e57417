package audio

import "fmt"

// G.711 µ-law codec for telephony clients that join a room with the "pcmu"
// encoding (SIP bridges deliver 8kHz µ-law). Linear16 stays the internal
// pipeline format; these conversions happen only at the room edge.

// EncodeMulaw converts linear PCM (16-bit little-endian) to 8-bit µ-law,
// resampling from inputRate to outputRate first when they differ.
func EncodeMulaw(pcm []byte, inputRate, outputRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, fmt.Errorf("empty PCM data")
	}
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("PCM data length must be even (16-bit samples)")
	}

	samples := BytesToSamples(pcm)
	if inputRate != outputRate {
		samples = Resample(samples, inputRate, outputRate)
	}

	out := make([]byte, len(samples))
	for i, s := range samples {
		out[i] = linearToMulaw(s)
	}
	return out, nil
}

// DecodeMulaw converts 8-bit µ-law to linear PCM (16-bit little-endian),
// resampling from inputRate to outputRate when they differ.
func DecodeMulaw(mulaw []byte, inputRate, outputRate int) ([]byte, error) {
	if len(mulaw) == 0 {
		return nil, fmt.Errorf("empty mulaw data")
	}

	samples := make([]int16, len(mulaw))
	for i, b := range mulaw {
		samples[i] = mulawToLinear(b)
	}
	if inputRate != outputRate {
		samples = Resample(samples, inputRate, outputRate)
	}
	return SamplesToBytes(samples), nil
}

// linearToMulaw converts one 16-bit linear sample to µ-law per ITU-T G.711.
func linearToMulaw(sample int16) byte {
	const (
		clip = 8159 // 14-bit magnitude ceiling
		bias = 0x21
	)

	var sign byte
	magnitude := int32(sample)
	if sample < 0 {
		sign = 0x80
		magnitude = -magnitude
	}

	if magnitude > clip {
		magnitude = clip
	}
	magnitude += bias

	var segment byte
	switch {
	case magnitude >= 0x1000:
		segment = 7
	case magnitude >= 0x800:
		segment = 6
	case magnitude >= 0x400:
		segment = 5
	case magnitude >= 0x200:
		segment = 4
	case magnitude >= 0x100:
		segment = 3
	case magnitude >= 0x80:
		segment = 2
	case magnitude >= 0x40:
		segment = 1
	}

	mantissa := byte((magnitude >> (segment + 1)) & 0x0F)
	return ^(sign | (segment << 4) | mantissa)
}

// mulawToLinear converts one µ-law byte back to a 16-bit linear sample.
func mulawToLinear(b byte) int16 {
	b = ^b

	sign := b & 0x80
	segment := int32((b >> 4) & 0x07)
	mantissa := int32(b & 0x0F)

	step := mantissa << (segment + 1)
	step += int32(0x21) << segment
	magnitude := step - 0x21

	if sign != 0 {
		return int16(-magnitude)
	}
	return int16(magnitude)
}
