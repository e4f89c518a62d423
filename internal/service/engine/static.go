package engine

import (
	"context"
	"strings"

	"github.com/citizenvoice/assistant/internal/model/chat"
)

// faqEntry pairs keywords with a canned grievance answer.
type faqEntry struct {
	keywords []string
	answer   string
}

var faq = []faqEntry{
	{
		keywords: []string{"life certificate"},
		answer:   "You can submit your life certificate online through the Jeevan Pramaan portal, or in person at your pension disbursing bank branch. Keep your Aadhaar and pension payment order number at hand.",
	},
	{
		keywords: []string{"pension", "delay"},
		answer:   "Pension payments can be delayed by a pending life certificate, outdated bank details, or processing backlogs. Please verify both on your profile; if everything is current, file a grievance and we will escalate it.",
	},
	{
		keywords: []string{"bank", "details"},
		answer:   "To update your bank details, submit a change request with a cancelled cheque or passbook copy to your pension disbursing authority. The change takes effect from the next payment cycle.",
	},
	{
		keywords: []string{"family pension"},
		answer:   "Family pension claims require the death certificate, the claimant's identity and bank proof, and the original pension payment order. Your disbursing authority can list any scheme-specific additions.",
	},
	{
		keywords: []string{"status"},
		answer:   "You can track the status of your pension or grievance from the dashboard after signing in. Each grievance shows its current stage and the officer it is assigned to.",
	},
	{
		keywords: []string{"grievance", "file"},
		answer:   "To file a grievance, sign in and use the New Grievance form. Describe the issue, attach any supporting documents, and submit; you will receive a tracking number immediately.",
	},
}

const staticDefaultAnswer = "I can help with pension payments, life certificates, bank detail updates, family pension claims, and tracking your grievances. Could you tell me a bit more about your issue?"

// StaticResponder is the deterministic stand-in used when no language model
// is configured. It matches queries against a small grievance FAQ and detects
// the query language by script.
type StaticResponder struct{}

// Respond implements Responder.
func (StaticResponder) Respond(_ context.Context, query, lang string) (Reply, error) {
	if lang == "" {
		lang = DetectLanguage(query)
	}
	if _, ok := chat.SupportedLanguages()[lang]; !ok {
		lang = chat.DefaultLanguage
	}

	lowered := strings.ToLower(query)
	for _, entry := range faq {
		if matchesAll(lowered, entry.keywords) {
			return Reply{Text: entry.answer, Language: lang}, nil
		}
	}
	return Reply{Text: staticDefaultAnswer, Language: lang}, nil
}

func matchesAll(query string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(query, kw) {
			return false
		}
	}
	return true
}

// SuggestionPool is the full set of follow-up questions the gateway serves.
// The language parameter selects nothing yet: the pool is English-only, the
// same behavior the service always had.
func SuggestionPool(_ string) []string {
	return []string{
		"How do I submit my life certificate?",
		"Why is my pension payment delayed?",
		"How do I update my bank details?",
		"What documents are required for family pension?",
		"How can I check my pension status online?",
		"What is the process for filing a grievance?",
		"How long does it take to resolve a grievance?",
		"Can I submit my grievance in my regional language?",
		"What happens after I submit a grievance?",
		"How do I track the status of my grievance?",
	}
}
