package language_test

import (
	"testing"

	"github.com/citizenvoice/assistant/internal/service/language"
)

func TestOutboundDefersUnderAutoDetect(t *testing.T) {
	var n language.Negotiator
	if hint := n.Outbound(true, "es"); hint != "" {
		t.Fatalf("auto-detect must not send a hint, got %q", hint)
	}
}

func TestOutboundSendsPinnedLanguage(t *testing.T) {
	var n language.Negotiator
	if hint := n.Outbound(false, "hi"); hint != "hi" {
		t.Fatalf("expected pinned hint hi, got %q", hint)
	}
	if hint := n.Outbound(false, ""); hint != "en" {
		t.Fatalf("expected default hint en, got %q", hint)
	}
}

func TestReconcileAdoptsUnderAutoDetect(t *testing.T) {
	var n language.Negotiator
	d := n.Reconcile(true, "en", "es")
	if d.Current != "es" {
		t.Fatalf("expected adopted language es, got %s", d.Current)
	}
	if d.MessageLanguage != "es" {
		t.Fatalf("expected message language es, got %s", d.MessageLanguage)
	}
}

func TestReconcileKeepsManualSelection(t *testing.T) {
	var n language.Negotiator
	d := n.Reconcile(false, "en", "es")
	if d.Current != "en" {
		t.Fatalf("manual selection must not be overridden, got %s", d.Current)
	}
	if d.MessageLanguage != "es" {
		t.Fatalf("reported language belongs on the message, got %s", d.MessageLanguage)
	}
}

func TestReconcileMissingReportedLanguage(t *testing.T) {
	var n language.Negotiator
	d := n.Reconcile(true, "fr", "")
	if d.Current != "fr" || d.MessageLanguage != "fr" {
		t.Fatalf("expected fr/fr, got %s/%s", d.Current, d.MessageLanguage)
	}
}
