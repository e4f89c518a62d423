package session_test

import (
	"testing"

	"github.com/citizenvoice/assistant/internal/model/chat"
	"github.com/citizenvoice/assistant/internal/service/session"
)

func TestAppendPreservesOrder(t *testing.T) {
	store := session.New()
	store.AppendMessage(chat.NewMessage(chat.SenderUser, "first", "en"))
	store.AppendMessage(chat.NewMessage(chat.SenderBot, "second", "en"))
	store.AppendMessage(chat.NewMessage(chat.SenderUser, "third", "en"))

	messages := store.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if messages[i].Content != want {
			t.Fatalf("message %d: got %q want %q", i, messages[i].Content, want)
		}
	}
}

func TestSetLanguageClearsAutoDetect(t *testing.T) {
	store := session.New()
	if _, auto := store.Language(); !auto {
		t.Fatal("expected a fresh session to auto-detect")
	}

	store.SetLanguage("hi")

	lang, auto := store.Language()
	if lang != "hi" {
		t.Fatalf("expected language hi, got %s", lang)
	}
	if auto {
		t.Fatal("manual selection must leave auto-detect mode")
	}
}

func TestClearSeedsWelcomeWithoutHistory(t *testing.T) {
	store := session.New()
	store.Clear()

	messages := store.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one welcome message, got %d", len(messages))
	}
	if messages[0].Sender != chat.SenderBot {
		t.Fatalf("welcome message sender: got %s", messages[0].Sender)
	}
	if messages[0].Content != chat.WelcomeMessage {
		t.Fatalf("unexpected welcome content: %q", messages[0].Content)
	}
	if messages[0].Language != "en" {
		t.Fatalf("welcome language: got %s want en", messages[0].Language)
	}
}

func TestClearAfterLoadedHistoryLeavesTranscriptEmpty(t *testing.T) {
	store := session.New()
	store.LoadHistory([]chat.Message{
		chat.NewMessage(chat.SenderUser, "hola", "es"),
		chat.NewMessage(chat.SenderBot, "buenos días", "es"),
	})

	store.Clear()
	if got := store.Len(); got != 0 {
		t.Fatalf("expected empty transcript while history exists, got %d messages", got)
	}

	store.ForgetHistory()
	store.Clear()
	if got := store.Len(); got != 1 {
		t.Fatalf("expected welcome reseed after history removal, got %d messages", got)
	}
}

func TestLoadHistoryAdoptsLastLanguage(t *testing.T) {
	store := session.New()
	store.LoadHistory([]chat.Message{
		chat.NewMessage(chat.SenderUser, "hello", "en"),
		chat.NewMessage(chat.SenderBot, "bonjour", "fr"),
	})

	if lang, _ := store.Language(); lang != "fr" {
		t.Fatalf("expected current language fr, got %s", lang)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", store.Len())
	}
}

func TestLoadHistoryEmptySeedsWelcome(t *testing.T) {
	store := session.New()
	store.LoadHistory(nil)

	last, ok := store.LastMessage()
	if !ok {
		t.Fatal("expected a welcome message")
	}
	if last.Content != chat.WelcomeMessage {
		t.Fatalf("unexpected content: %q", last.Content)
	}
}
