// Package chatbot exposes the assistant service API consumed by the session
// client and the web frontend.
package chatbot

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/citizenvoice/assistant/internal/middleware"
	"github.com/citizenvoice/assistant/internal/model/chat"
	"github.com/citizenvoice/assistant/internal/service/engine"
	"github.com/citizenvoice/assistant/internal/service/history"
	"github.com/citizenvoice/assistant/pkg/utils"
)

// Handler serves the /api/chatbot routes.
type Handler struct {
	responder engine.Responder
	synth     engine.Synthesizer
	histStore history.Store
	auth      middleware.Authenticator
}

// New wires the handler to its collaborators.
func New(responder engine.Responder, synth engine.Synthesizer, histStore history.Store, auth middleware.Authenticator) *Handler {
	return &Handler{
		responder: responder,
		synth:     synth,
		histStore: histStore,
		auth:      auth,
	}
}

// RegisterRoutes mounts the chatbot API. History, query and current-language
// require an authenticated identity; the rest are anonymous.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chatbot", func(cr chi.Router) {
		cr.Get("/suggested-questions", h.handleSuggestedQuestions)
		cr.Get("/languages", h.handleLanguages)
		cr.Post("/text-to-speech", h.handleTextToSpeech)
		cr.Get("/ws", h.handleWebSocket)

		cr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAuth(h.auth))
			ar.Post("/query", h.handleQuery)
			ar.Get("/history", h.handleHistory)
			ar.Delete("/history", h.handleClearHistory)
			ar.Get("/current-language", h.handleCurrentLanguage)
		})
	})
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query    string  `json:"query"`
		Language *string `json:"language"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Query) == "" {
		utils.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}

	lang := ""
	if payload.Language != nil {
		lang = *payload.Language
	}

	reply, err := h.responder.Respond(r.Context(), payload.Query, lang)
	if err != nil {
		log.Printf("[chatbot] query failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "server error")
		return
	}

	h.persistTurn(r.Context(), middleware.UserID(r.Context()), payload.Query, reply)

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"response": reply.Text,
		"language": reply.Language,
	})
}

// persistTurn appends the user/bot pair to the caller's history. Persistence
// failures are logged, not surfaced; the reply already succeeded.
func (h *Handler) persistTurn(ctx context.Context, userID, query string, reply engine.Reply) {
	if userID == "" {
		return
	}
	err := h.histStore.Append(ctx, userID,
		chat.NewMessage(chat.SenderUser, query, reply.Language),
		chat.NewMessage(chat.SenderBot, reply.Text, reply.Language),
	)
	if err != nil {
		log.Printf("[chatbot] failed to persist history for %s: %v", userID, err)
	}
}

func (h *Handler) handleSuggestedQuestions(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("language")
	if lang == "" {
		lang = chat.DefaultLanguage
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]string{
		"suggestedQuestions": engine.SuggestionPool(lang),
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.histStore.Load(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		log.Printf("[chatbot] failed to load history: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]chat.Message{
		"messages": history.Messages(records),
	})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.histStore.Clear(r.Context(), middleware.UserID(r.Context())); err != nil {
		log.Printf("[chatbot] failed to clear history: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

func (h *Handler) handleTextToSpeech(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}
	if payload.Language == "" {
		payload.Language = chat.DefaultLanguage
	}

	audio, format, err := h.synth.Synthesize(r.Context(), payload.Text, payload.Language)
	if err != nil {
		log.Printf("[chatbot] synthesis failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"audio":  base64.StdEncoding.EncodeToString(audio),
		"format": format,
	})
}

func (h *Handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]map[string]string{
		"languages": chat.SupportedLanguages(),
	})
}

// handleCurrentLanguage reports the language of the caller's last stored
// message, which is what the service last negotiated for them.
func (h *Handler) handleCurrentLanguage(w http.ResponseWriter, r *http.Request) {
	records, err := h.histStore.Load(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		log.Printf("[chatbot] failed to load history: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "server error")
		return
	}

	lang := chat.DefaultLanguage
	if len(records) > 0 && records[len(records)-1].Language != "" {
		lang = records[len(records)-1].Language
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"language": lang})
}
