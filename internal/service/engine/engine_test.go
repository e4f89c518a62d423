package engine_test

import (
	"context"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/citizenvoice/assistant/internal/service/engine"
)

func TestDetectLanguageByScript(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"मेरी पेंशन कहाँ है", "hi"},
		{"என் ஓய்வூதியம் எங்கே", "ta"},
		{"where is my pension", "en"},
		{"", "en"},
		{"ok అరే pension స్టేటస్", "te"},
	}
	for _, tc := range cases {
		if got := engine.DetectLanguage(tc.text); got != tc.want {
			t.Fatalf("DetectLanguage(%q): got %s want %s", tc.text, got, tc.want)
		}
	}
}

func TestStaticResponderMatchesFAQ(t *testing.T) {
	reply, err := engine.StaticResponder{}.Respond(context.Background(), "Why is my PENSION payment facing a delay?", "en")
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if !strings.Contains(reply.Text, "delayed") {
		t.Fatalf("expected the pension delay answer, got %q", reply.Text)
	}
	if reply.Language != "en" {
		t.Fatalf("reply language: got %s want en", reply.Language)
	}
}

func TestStaticResponderDefaultAnswer(t *testing.T) {
	reply, err := engine.StaticResponder{}.Respond(context.Background(), "tell me a joke", "en")
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if !strings.Contains(reply.Text, "Could you tell me a bit more") {
		t.Fatalf("expected the generic answer, got %q", reply.Text)
	}
}

func TestStaticResponderDetectsWhenNoHint(t *testing.T) {
	reply, err := engine.StaticResponder{}.Respond(context.Background(), "पेंशन की स्थिति", "")
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if reply.Language != "hi" {
		t.Fatalf("expected detected language hi, got %s", reply.Language)
	}
}

func TestStaticResponderRejectsUnsupportedHint(t *testing.T) {
	reply, err := engine.StaticResponder{}.Respond(context.Background(), "hello", "xx")
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if reply.Language != "en" {
		t.Fatalf("unsupported hint must fall back to en, got %s", reply.Language)
	}
}

func TestToneSynthesizerProducesWAV(t *testing.T) {
	audio, format, err := engine.ToneSynthesizer{}.Synthesize(context.Background(), "three short words", "en")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if format != "wav" {
		t.Fatalf("format: got %s want wav", format)
	}
	if len(audio) <= 44 {
		t.Fatalf("expected PCM data after the header, got %d bytes", len(audio))
	}
	if string(audio[0:4]) != "RIFF" || string(audio[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers: % x", audio[0:12])
	}
	if rate := binary.LittleEndian.Uint32(audio[24:28]); rate != 16000 {
		t.Fatalf("sample rate: got %d want 16000", rate)
	}
	dataLen := binary.LittleEndian.Uint32(audio[40:44])
	if int(dataLen) != len(audio)-44 {
		t.Fatalf("data chunk length %d does not match payload %d", dataLen, len(audio)-44)
	}
	// 3 words at 300ms each, 16kHz mono 16-bit.
	if want := uint32(3 * 300 * 16000 / 1000 * 2); dataLen != want {
		t.Fatalf("data length: got %d want %d", dataLen, want)
	}
}

func TestSuggestionPoolSize(t *testing.T) {
	if got := len(engine.SuggestionPool("en")); got != 10 {
		t.Fatalf("expected 10 pooled questions, got %d", got)
	}
}
