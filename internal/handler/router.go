package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/citizenvoice/assistant/internal/handler/chatbot"
	middlewarePkg "github.com/citizenvoice/assistant/internal/middleware"
	"github.com/citizenvoice/assistant/internal/service/engine"
	"github.com/citizenvoice/assistant/internal/service/history"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(responder engine.Responder, synth engine.Synthesizer, histStore history.Store, auth middlewarePkg.Authenticator) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatbotHandler := chatbot.New(responder, synth, histStore, auth)

	r.Route("/api", func(api chi.Router) {
		chatbotHandler.RegisterRoutes(api)
	})

	return r
}
