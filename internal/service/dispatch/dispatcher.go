// Package dispatch drives the submit flow: one query in flight per session,
// optimistic transcript updates, language reconciliation and voice hand-off.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/citizenvoice/assistant/internal/client"
	"github.com/citizenvoice/assistant/internal/model/chat"
	"github.com/citizenvoice/assistant/internal/service/language"
	"github.com/citizenvoice/assistant/internal/service/session"
)

// ErrInFlight is returned when a submission is rejected because another one
// has not completed yet.
var ErrInFlight = errors.New("a query is already in flight")

// QueryClient is the slice of the assistant service the dispatcher needs.
type QueryClient interface {
	Query(ctx context.Context, query, lang string) (client.QueryResult, error)
	SuggestedQuestions(ctx context.Context, lang string) ([]string, error)
}

// Speaker receives bot utterances for voice output. Enqueue must be safe to
// call regardless of whether output is enabled.
type Speaker interface {
	Enabled() bool
	Enqueue(ctx context.Context, text, lang string)
}

// Dispatcher owns the submit path. All session mutation happens through the
// store's operations; UI code never touches the store directly.
type Dispatcher struct {
	store      *session.Store
	negotiator language.Negotiator
	client     QueryClient
	speaker    Speaker

	mu          sync.Mutex
	inFlight    bool
	suggestions []string

	wg conc.WaitGroup

	// onSuggestions is invoked after every suggestion refresh, including the
	// fallback path. Optional.
	onSuggestions func([]string)
}

// New builds a dispatcher. speaker may be nil when voice output is absent.
func New(store *session.Store, qc QueryClient, speaker Speaker) *Dispatcher {
	return &Dispatcher{
		store:       store,
		client:      qc,
		speaker:     speaker,
		suggestions: chat.FallbackSuggestions(),
	}
}

// OnSuggestions registers the suggestion listener. Call before Submit.
func (d *Dispatcher) OnSuggestions(fn func([]string)) {
	d.onSuggestions = fn
}

// Suggestions returns the current suggested follow-up questions.
func (d *Dispatcher) Suggestions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.suggestions))
	copy(out, d.suggestions)
	return out
}

// InFlight reports whether a submission is active.
func (d *Dispatcher) InFlight() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// Submit sends a user utterance to the assistant service and folds the result
// into the session. Empty input and re-entrant calls are no-ops; any remote
// failure appends the fixed apology and leaves the language state untouched.
func (d *Dispatcher) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return ErrInFlight
	}
	d.inFlight = true
	d.mu.Unlock()

	// Unconditional: a stuck flag would deadlock every future submission.
	defer func() {
		d.mu.Lock()
		d.inFlight = false
		d.mu.Unlock()
	}()

	current, autoDetect := d.store.Language()
	d.store.AppendMessage(chat.NewMessage(chat.SenderUser, text, current))

	result, err := d.client.Query(ctx, text, d.negotiator.Outbound(autoDetect, current))
	if err != nil {
		d.store.AppendMessage(chat.NewMessage(chat.SenderBot, chat.ApologyMessage, chat.DefaultLanguage))
		return err
	}

	decision := d.negotiator.Reconcile(autoDetect, current, result.Language)
	if autoDetect && decision.Current != current {
		d.store.SetCurrentLanguage(decision.Current)
	}

	botMsg := chat.NewMessage(chat.SenderBot, result.Response, decision.MessageLanguage)
	d.store.AppendMessage(botMsg)
	d.store.SetSuggestionsVisible(true)

	if d.speaker != nil && d.speaker.Enabled() {
		d.speaker.Enqueue(ctx, botMsg.Content, botMsg.Language)
	}

	d.refreshSuggestions(decision.Current)
	return nil
}

// refreshSuggestions runs the idempotent side query in the background. Its
// failure is absorbed with the fixed fallback list and never blocks or fails
// the submit flow; it only ever updates the suggestions field, so a late
// completion cannot reorder transcript messages.
func (d *Dispatcher) refreshSuggestions(lang string) {
	d.wg.Go(func() {
		questions, err := d.client.SuggestedQuestions(context.Background(), lang)
		if err != nil || len(questions) == 0 {
			questions = chat.FallbackSuggestions()
		}
		d.mu.Lock()
		d.suggestions = questions
		d.mu.Unlock()
		if d.onSuggestions != nil {
			d.onSuggestions(questions)
		}
	})
}

// Wait blocks until background suggestion refreshes complete. Intended for
// shutdown and tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
