package engine

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"strings"
	"time"
)

const (
	toneSampleRate = 16000
	toneFreqHz     = 440
	toneAmplitude  = 0.2
	// Roughly average speaking pace; the clip length tracks the word count so
	// playback ordering stays observable end to end.
	tonePerWord = 300 * time.Millisecond
)

// ToneSynthesizer is the placeholder speech backend: it renders a fixed tone
// whose duration is proportional to the text length, packaged as a WAV clip.
// Real synthesis lives behind an external service; this keeps the playback
// pipeline exercisable without one.
type ToneSynthesizer struct{}

// Synthesize implements Synthesizer.
func (ToneSynthesizer) Synthesize(_ context.Context, text, _ string) ([]byte, string, error) {
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	d := time.Duration(words) * tonePerWord
	if d > 15*time.Second {
		d = 15 * time.Second
	}
	pcm := sineTonePCM16LE(toneFreqHz, toneSampleRate, d, toneAmplitude)
	return wrapWAV(pcm, toneSampleRate, 1, 2), "wav", nil
}

func sineTonePCM16LE(freqHz, sampleRateHz int, d time.Duration, amp float64) []byte {
	samples := int(float64(sampleRateHz) * d.Seconds())
	if samples <= 0 {
		samples = 1
	}
	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(sampleRateHz)
		v := amp * math.Sin(2*math.Pi*float64(freqHz)*t)
		s := int16(v * 32767.0)
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

// wrapWAV prepends a canonical 44-byte RIFF header to raw PCM data.
func wrapWAV(pcm []byte, sampleRate, channels, bytesPerSample int) []byte {
	var buf bytes.Buffer
	byteRate := sampleRate * channels * bytesPerSample

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*bytesPerSample))
	binary.Write(&buf, binary.LittleEndian, uint16(bytesPerSample*8))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
