package session

import (
	"sync"

	"github.com/citizenvoice/assistant/internal/model/chat"
)

// Store holds the state of one assistant activation: the ordered transcript
// and the language preferences. Exactly one Store exists per activation and it
// is discarded on close, never merged with a resumed one.
//
// Every mutation goes through a Store operation; none of them can fail and
// none of them performs I/O.
type Store struct {
	mu                 sync.RWMutex
	messages           []chat.Message
	currentLanguage    string
	autoDetect         bool
	suggestionsVisible bool
	hasHistory         bool
}

// New creates a session in auto-detect mode with an English default.
func New() *Store {
	return &Store{
		currentLanguage:    chat.DefaultLanguage,
		autoDetect:         true,
		suggestionsVisible: true,
	}
}

// AppendMessage adds a message to the tail of the transcript.
func (s *Store) AppendMessage(msg chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the transcript in append order.
func (s *Store) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len reports the transcript length.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LastMessage returns the most recent transcript entry, if any.
func (s *Store) LastMessage() (chat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return chat.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// SetLanguage pins the conversation language. A manual selection always
// leaves auto-detect mode.
func (s *Store) SetLanguage(code string) {
	if code == "" {
		code = chat.DefaultLanguage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLanguage = code
	s.autoDetect = false
}

// SetAutoDetect switches detection mode without touching the current language.
func (s *Store) SetAutoDetect(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoDetect = enabled
}

// SetCurrentLanguage records a detected language while staying in auto-detect
// mode. Used by the negotiator when a response reports its language.
func (s *Store) SetCurrentLanguage(code string) {
	if code == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLanguage = code
}

// Language returns the current language code and whether auto-detect is on.
func (s *Store) Language() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLanguage, s.autoDetect
}

// SetSuggestionsVisible toggles the suggested-questions panel flag.
func (s *Store) SetSuggestionsVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestionsVisible = visible
}

// SuggestionsVisible reports the suggested-questions panel flag.
func (s *Store) SuggestionsVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suggestionsVisible
}

// LoadHistory seeds the transcript from server-side history. The language of
// the last stored message becomes the current language; an empty history
// seeds the welcome message instead.
func (s *Store) LoadHistory(messages []chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(messages) == 0 {
		s.hasHistory = false
		s.seedWelcomeLocked()
		return
	}
	s.hasHistory = true
	s.messages = make([]chat.Message, len(messages))
	copy(s.messages, messages)
	if last := messages[len(messages)-1]; last.Language != "" {
		s.currentLanguage = last.Language
	}
}

// Clear empties the transcript. When no server-side history ever existed the
// transcript is reseeded with the welcome message; otherwise the caller is
// expected to reload (or have cleared) the server-side history first.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	if !s.hasHistory {
		s.seedWelcomeLocked()
	}
}

// ForgetHistory marks the server-side history as gone, so the next Clear
// reseeds the welcome message.
func (s *Store) ForgetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasHistory = false
}

func (s *Store) seedWelcomeLocked() {
	s.messages = []chat.Message{
		chat.NewMessage(chat.SenderBot, chat.WelcomeMessage, chat.DefaultLanguage),
	}
}
