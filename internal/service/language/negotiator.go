// Package language decides which language accompanies each outbound query and
// how a response's reported language feeds back into session state.
package language

import "github.com/citizenvoice/assistant/internal/model/chat"

// Decision is the outcome of reconciling a response's reported language.
type Decision struct {
	// Current is the session language after reconciliation.
	Current string
	// MessageLanguage is recorded on the bot message itself.
	MessageLanguage string
}

// Negotiator arbitrates between backend auto-detection and an explicit user
// choice. It is stateless; the session store owns the mode and current code.
type Negotiator struct{}

// Outbound computes the language hint for a query. An empty string means
// "defer to auto-detection".
func (Negotiator) Outbound(autoDetect bool, current string) string {
	if autoDetect {
		return ""
	}
	if current == "" {
		return chat.DefaultLanguage
	}
	return current
}

// Reconcile applies the language reported by a response. Under auto-detect the
// reported language becomes the session language. Under a manual selection the
// reported language is kept on the message only; a detection result never
// silently overrides the user's choice.
func (Negotiator) Reconcile(autoDetect bool, current, reported string) Decision {
	if reported == "" {
		reported = current
	}
	if reported == "" {
		reported = chat.DefaultLanguage
	}
	if autoDetect {
		return Decision{Current: reported, MessageLanguage: reported}
	}
	return Decision{Current: current, MessageLanguage: reported}
}
