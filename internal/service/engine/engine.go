// Package engine holds the reasoning and synthesis seams of the gateway. The
// actual NLP is an opaque concern: the gateway only depends on these
// interfaces and ships a deterministic fallback for each.
package engine

import "context"

// Reply is a responder's answer together with the language it was produced in.
type Reply struct {
	Text     string
	Language string
}

// Responder turns a user query into a reply. lang empty means the responder
// should detect the language itself and report what it detected.
type Responder interface {
	Respond(ctx context.Context, query, lang string) (Reply, error)
}

// Synthesizer renders text as encoded audio, returning the bytes and their
// format ("wav", "mp3", ...).
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, string, error)
}
