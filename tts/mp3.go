package tts

// MP3 duration estimation by MPEG frame scanning. The synthesis
// providers return encoded bytes without timing information, and no
// decoder is needed just to learn how long the audio runs: walking the
// frame headers and summing samples-per-frame over the sample rate is
// enough, and handles VBR streams correctly where a bitrate guess from
// the first frame would not.

// layer III samples per frame by MPEG version.
const (
	mpeg1SamplesPerFrame = 1152
	mpeg2SamplesPerFrame = 576
)

// layer III bitrates in kbit/s, indexed by the header bitrate field.
var (
	mpeg1Bitrates = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}
	mpeg2Bitrates = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}
)

// sample rates in Hz, indexed by version then the header field.
var mp3SampleRates = map[byte][4]int{
	3: {44100, 48000, 32000, 0}, // MPEG1
	2: {22050, 24000, 16000, 0}, // MPEG2
	0: {11025, 12000, 8000, 0},  // MPEG2.5
}

// MP3Duration returns the playing time in seconds of an MP3 stream by
// scanning its frame headers. Unrecognized bytes (ID3 tags, junk
// between frames) are skipped. Returns 0 when no valid frame exists.
func MP3Duration(data []byte) float64 {
	i := skipID3v2(data)

	var seconds float64
	for i+4 <= len(data) {
		frameLen, frameSeconds := parseFrameHeader(data[i:])
		if frameLen == 0 {
			i++
			continue
		}
		seconds += frameSeconds
		i += frameLen
	}
	return seconds
}

// skipID3v2 returns the offset after an ID3v2 tag, or 0.
func skipID3v2(data []byte) int {
	if len(data) < 10 || data[0] != 'I' || data[1] != 'D' || data[2] != '3' {
		return 0
	}
	// Syncsafe 28-bit size, not counting the 10-byte header.
	size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 |
		int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
	end := 10 + size
	if end > len(data) {
		return len(data)
	}
	return end
}

// parseFrameHeader validates a layer III frame header at the start of
// data and returns the frame length in bytes plus its play time.
// Returns (0, 0) when the bytes are not a valid frame.
func parseFrameHeader(data []byte) (int, float64) {
	if len(data) < 4 {
		return 0, 0
	}
	// 11 sync bits.
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return 0, 0
	}

	version := (data[1] >> 3) & 0x03 // 3=MPEG1, 2=MPEG2, 0=MPEG2.5
	layer := (data[1] >> 1) & 0x03   // 1=Layer III
	if version == 1 || layer != 1 {
		return 0, 0
	}

	bitrateIndex := data[2] >> 4
	rateIndex := (data[2] >> 2) & 0x03
	padding := int((data[2] >> 1) & 0x01)

	rates, ok := mp3SampleRates[version]
	if !ok {
		return 0, 0
	}
	sampleRate := rates[rateIndex]
	if sampleRate == 0 {
		return 0, 0
	}

	var bitrate, samples, coeff int
	if version == 3 {
		bitrate = mpeg1Bitrates[bitrateIndex]
		samples = mpeg1SamplesPerFrame
		coeff = 144
	} else {
		bitrate = mpeg2Bitrates[bitrateIndex]
		samples = mpeg2SamplesPerFrame
		coeff = 72
	}
	if bitrate == 0 {
		return 0, 0
	}

	frameLen := coeff*bitrate*1000/sampleRate + padding
	if frameLen <= 4 {
		return 0, 0
	}
	return frameLen, float64(samples) / float64(sampleRate)
}
