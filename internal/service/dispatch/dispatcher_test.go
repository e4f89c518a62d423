package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/citizenvoice/assistant/internal/client"
	"github.com/citizenvoice/assistant/internal/model/chat"
	"github.com/citizenvoice/assistant/internal/service/dispatch"
	"github.com/citizenvoice/assistant/internal/service/session"
)

// fakeQueryClient scripts the remote assistant. A non-nil block channel makes
// Query park until the test releases it.
type fakeQueryClient struct {
	mu          sync.Mutex
	queries     []string
	hints       []string
	result      client.QueryResult
	queryErr    error
	suggestions []string
	suggestErr  error
	block       chan struct{}
}

func (f *fakeQueryClient) Query(_ context.Context, query, lang string) (client.QueryResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.hints = append(f.hints, lang)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.result, f.queryErr
}

func (f *fakeQueryClient) SuggestedQuestions(_ context.Context, _ string) ([]string, error) {
	return f.suggestions, f.suggestErr
}

func (f *fakeQueryClient) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeSpeaker struct {
	enabled bool
	spoken  []string
	langs   []string
}

func (s *fakeSpeaker) Enabled() bool { return s.enabled }

func (s *fakeSpeaker) Enqueue(_ context.Context, text, lang string) {
	s.spoken = append(s.spoken, text)
	s.langs = append(s.langs, lang)
}

func TestSubmitAppendsUserAndBotMessages(t *testing.T) {
	store := session.New()
	qc := &fakeQueryClient{
		result:      client.QueryResult{Response: "Your pension is on the way.", Language: "en"},
		suggestions: []string{"How do I check my pension status?"},
	}
	d := dispatch.New(store, qc, nil)

	if err := d.Submit(context.Background(), "  where is my pension  "); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	d.Wait()

	messages := store.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != chat.SenderUser || messages[0].Content != "where is my pension" {
		t.Fatalf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Sender != chat.SenderBot || messages[1].Content != "Your pension is on the way." {
		t.Fatalf("unexpected bot message: %+v", messages[1])
	}
	if !store.SuggestionsVisible() {
		t.Fatal("suggestions must reappear after a successful turn")
	}
	if got := d.Suggestions(); len(got) != 1 || got[0] != "How do I check my pension status?" {
		t.Fatalf("unexpected suggestions: %v", got)
	}
}

func TestSubmitEmptyTextIsNoop(t *testing.T) {
	store := session.New()
	qc := &fakeQueryClient{}
	d := dispatch.New(store, qc, nil)

	if err := d.Submit(context.Background(), "   "); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("whitespace input must not touch the transcript, len=%d", store.Len())
	}
	if qc.queryCount() != 0 {
		t.Fatal("whitespace input must not reach the remote service")
	}
}

func TestSubmitRejectsSecondInFlightQuery(t *testing.T) {
	store := session.New()
	qc := &fakeQueryClient{
		result: client.QueryResult{Response: "ok", Language: "en"},
		block:  make(chan struct{}),
	}
	d := dispatch.New(store, qc, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- d.Submit(context.Background(), "first question")
	}()

	// Wait for the first submission to reach the remote call.
	deadline := time.After(2 * time.Second)
	for qc.queryCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first query never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	before := store.Len()
	if err := d.Submit(context.Background(), "second question"); !errors.Is(err, dispatch.ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if store.Len() != before {
		t.Fatal("a rejected submission must not change the transcript")
	}
	if qc.queryCount() != 1 {
		t.Fatalf("a rejected submission must not reach the remote service, calls=%d", qc.queryCount())
	}

	close(qc.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	d.Wait()
}

func TestSubmitFailureAppendsApologyAndRecovers(t *testing.T) {
	store := session.New()
	store.SetCurrentLanguage("es")
	qc := &fakeQueryClient{queryErr: errors.New("connection refused")}
	d := dispatch.New(store, qc, nil)

	if err := d.Submit(context.Background(), "hola"); err == nil {
		t.Fatal("expected the transport error to surface")
	}

	messages := store.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user message plus apology, got %d", len(messages))
	}
	if messages[1].Content != chat.ApologyMessage {
		t.Fatalf("unexpected apology text: %q", messages[1].Content)
	}
	if messages[1].Language != chat.DefaultLanguage {
		t.Fatalf("apology language: got %s want %s", messages[1].Language, chat.DefaultLanguage)
	}
	if lang, _ := store.Language(); lang != "es" {
		t.Fatalf("a failed turn must leave the language untouched, got %s", lang)
	}

	// The in-flight flag must be clear; the next attempt goes through.
	qc.queryErr = nil
	qc.result = client.QueryResult{Response: "hola de nuevo", Language: "es"}
	if err := d.Submit(context.Background(), "hola otra vez"); err != nil {
		t.Fatalf("recovery submit failed: %v", err)
	}
	d.Wait()
}

func TestSubmitAdoptsDetectedLanguage(t *testing.T) {
	store := session.New()
	qc := &fakeQueryClient{result: client.QueryResult{Response: "hola", Language: "es"}}
	d := dispatch.New(store, qc, nil)

	if err := d.Submit(context.Background(), "hola"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	d.Wait()

	if lang, auto := store.Language(); lang != "es" || !auto {
		t.Fatalf("expected es with auto-detect still on, got %s auto=%v", lang, auto)
	}
	// No hint is sent while auto-detecting.
	if qc.hints[0] != "" {
		t.Fatalf("expected an empty hint under auto-detect, got %q", qc.hints[0])
	}
}

func TestSubmitKeepsPinnedLanguage(t *testing.T) {
	store := session.New()
	store.SetLanguage("en")
	qc := &fakeQueryClient{result: client.QueryResult{Response: "hola", Language: "es"}}
	d := dispatch.New(store, qc, nil)

	if err := d.Submit(context.Background(), "hola"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	d.Wait()

	if lang, _ := store.Language(); lang != "en" {
		t.Fatalf("pinned language must survive, got %s", lang)
	}
	if qc.hints[0] != "en" {
		t.Fatalf("expected pinned hint en, got %q", qc.hints[0])
	}
	last, _ := store.LastMessage()
	if last.Language != "es" {
		t.Fatalf("the reported language belongs on the message, got %s", last.Language)
	}
}

func TestSubmitSpeaksWhenOutputEnabled(t *testing.T) {
	store := session.New()
	qc := &fakeQueryClient{result: client.QueryResult{Response: "spoken reply", Language: "en"}}
	speaker := &fakeSpeaker{enabled: true}
	d := dispatch.New(store, qc, speaker)

	if err := d.Submit(context.Background(), "speak to me"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	d.Wait()

	if len(speaker.spoken) != 1 || speaker.spoken[0] != "spoken reply" {
		t.Fatalf("unexpected speaker calls: %v", speaker.spoken)
	}

	speaker.enabled = false
	if err := d.Submit(context.Background(), "quietly now"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	d.Wait()
	if len(speaker.spoken) != 1 {
		t.Fatalf("disabled output must not be fed, calls=%d", len(speaker.spoken))
	}
}

func TestSuggestionRefreshFallsBack(t *testing.T) {
	store := session.New()
	qc := &fakeQueryClient{
		result:     client.QueryResult{Response: "ok", Language: "en"},
		suggestErr: errors.New("timeout"),
	}
	d := dispatch.New(store, qc, nil)

	if err := d.Submit(context.Background(), "anything"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	d.Wait()

	got := d.Suggestions()
	want := chat.FallbackSuggestions()
	if len(got) != len(want) {
		t.Fatalf("expected the fallback list, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestion %d: got %q want %q", i, got[i], want[i])
		}
	}
}
