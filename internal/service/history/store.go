// Package history persists per-user conversation transcripts for the
// gateway, keyed by authenticated identity.
package history

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/citizenvoice/assistant/internal/model/chat"
)

// Record is one stored transcript entry.
type Record struct {
	ID       string      `json:"id"`
	Sender   chat.Sender `json:"sender"`
	Content  string      `json:"content"`
	Language string      `json:"language,omitempty"`
}

// Store is the persistence seam. Load returns an empty slice for unknown
// users rather than an error.
type Store interface {
	Load(ctx context.Context, userID string) ([]Record, error)
	Append(ctx context.Context, userID string, messages ...chat.Message) error
	Clear(ctx context.Context, userID string) error
}

// MemoryStore keeps transcripts in process memory. Suitable for development
// and tests; production uses the Redis store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, userID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.records[userID]
	copied := make([]Record, len(records))
	copy(copied, records)
	return copied, nil
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, userID string, messages ...chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range messages {
		s.records[userID] = append(s.records[userID], newRecord(msg))
	}
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, userID)
	return nil
}

func newRecord(msg chat.Message) Record {
	return Record{
		ID:       uuid.NewString(),
		Sender:   msg.Sender,
		Content:  msg.Content,
		Language: msg.Language,
	}
}

// Messages converts records back to wire messages in stored order.
func Messages(records []Record) []chat.Message {
	out := make([]chat.Message, 0, len(records))
	for _, r := range records {
		out = append(out, chat.Message{Sender: r.Sender, Content: r.Content, Language: r.Language})
	}
	return out
}
