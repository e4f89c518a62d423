// Package voice owns the two audio-facing state machines of the assistant:
// the serialized speech output queue and the one-shot speech input adapter.
// Each device is exclusively owned by its state machine; no other component
// touches audio directly.
package voice

import (
	"context"
	"log"
	"sync"
)

// Synthesizer converts text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// Player plays one encoded audio clip at a time. Play must return promptly
// and invoke done exactly once, from another goroutine, when playback
// finishes or fails; it must never call done from inside Play itself. Stop
// aborts the clip currently playing, if any.
type Player interface {
	Play(audio []byte, done func(error))
	Stop()
}

// AudioItem is a synthesized utterance waiting for playback. Consumed exactly
// once, never reordered or duplicated.
type AudioItem struct {
	SourceText string
	Language   string
	Audio      []byte
}

// OutputQueue serializes synthesis results so utterances play strictly in
// enqueue order and never overlap. States: idle (no playback) and playing
// (exactly one item at the device).
type OutputQueue struct {
	synth  Synthesizer
	player Player

	mu      sync.Mutex
	items   []AudioItem
	playing bool
	enabled bool
	gen     int
}

// NewOutputQueue builds a queue in the disabled, idle state.
func NewOutputQueue(synth Synthesizer, player Player) *OutputQueue {
	return &OutputQueue{synth: synth, player: player}
}

// Enable turns voice output on. Playback starts with the next Enqueue.
func (q *OutputQueue) Enable() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enabled = true
}

// Disable immediately stops any current playback, discards all queued items
// and forces the idle state. Synthesis results that arrive after Disable are
// not enqueued.
func (q *OutputQueue) Disable() {
	q.mu.Lock()
	q.enabled = false
	q.items = nil
	q.playing = false
	q.gen++
	q.mu.Unlock()

	q.player.Stop()
}

// Enabled reports whether voice output is on.
func (q *OutputQueue) Enabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enabled
}

// Playing reports whether an item is currently at the device.
func (q *OutputQueue) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.playing
}

// Depth reports how many items are queued, including the one playing.
func (q *OutputQueue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Enqueue synthesizes text and appends the result to the queue tail. When the
// queue is idle, playback of the head starts immediately. A synthesis failure
// drops the request without surfacing an error to the transcript.
func (q *OutputQueue) Enqueue(ctx context.Context, text, lang string) {
	q.mu.Lock()
	if !q.enabled {
		q.mu.Unlock()
		return
	}
	gen := q.gen
	q.mu.Unlock()

	audio, err := q.synth.Synthesize(ctx, text, lang)
	if err != nil {
		log.Printf("[voice] synthesis failed, dropping utterance: %v", err)
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	// Disabled (or disabled and re-enabled) while synthesizing: drop.
	if !q.enabled || q.gen != gen {
		return
	}
	q.items = append(q.items, AudioItem{SourceText: text, Language: lang, Audio: audio})
	if !q.playing {
		q.startHeadLocked()
	}
}

// startHeadLocked begins playback of the queue head. Caller holds q.mu and
// has checked the queue is non-empty.
//
// Play itself is invoked under q.mu on a fresh goroutine: either the
// goroutine takes the lock before a Disable and the player registers the
// clip for Stop to find, or Disable takes it first and the stale generation
// check keeps the clip from ever starting. Play never calls done inline, so
// holding the lock across it cannot deadlock.
func (q *OutputQueue) startHeadLocked() {
	q.playing = true
	gen := q.gen
	item := q.items[0]
	go func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.gen != gen || !q.playing {
			return
		}
		q.player.Play(item.Audio, func(err error) {
			if err != nil {
				log.Printf("[voice] playback error, advancing: %v", err)
			}
			q.advance(gen)
		})
	}()
}

// advance pops the consumed head and starts the next item, or returns to
// idle. A playback error advances exactly like normal completion so one bad
// item can never stall the queue.
func (q *OutputQueue) advance(gen int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	// A Disable between start and completion already reset the queue.
	if q.gen != gen {
		return
	}
	if len(q.items) > 0 {
		q.items = q.items[1:]
	}
	if len(q.items) > 0 {
		q.startHeadLocked()
		return
	}
	q.playing = false
}
