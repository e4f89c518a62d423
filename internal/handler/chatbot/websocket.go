package chatbot

import (
	"encoding/base64"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/citizenvoice/assistant/internal/service/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsQuery is the only inbound frame type on the live channel.
type wsQuery struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Language string `json:"language,omitempty"`
	Speak    bool   `json:"speak,omitempty"`
}

type wsFrame struct {
	Type      string `json:"type"`
	Response  string `json:"response,omitempty"`
	Language  string `json:"language,omitempty"`
	Audio     string `json:"audio,omitempty"`
	Format    string `json:"format,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// handleWebSocket serves the live channel: query frames in, response frames
// out, with an optional synthesized-audio frame per answered query. The
// channel is anonymous; history persistence stays on the REST query path.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[chatbot] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var query wsQuery
		if err := conn.ReadJSON(&query); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[chatbot] websocket read error: %v", err)
			}
			return
		}
		if query.Type != "query" || query.Query == "" {
			h.writeFrame(conn, wsFrame{Type: "error", Error: "expected a query frame"})
			continue
		}

		reply, err := h.responder.Respond(r.Context(), query.Query, query.Language)
		if err != nil {
			log.Printf("[chatbot] websocket query failed: %v", err)
			h.writeFrame(conn, wsFrame{Type: "error", Error: "server error"})
			continue
		}
		h.writeFrame(conn, wsFrame{Type: "response", Response: reply.Text, Language: reply.Language})

		if query.Speak {
			h.speakFrame(conn, r, reply)
		}
	}
}

// speakFrame synthesizes the reply and sends it as an audio frame. Synthesis
// failure is dropped: the text response already went out.
func (h *Handler) speakFrame(conn *websocket.Conn, r *http.Request, reply engine.Reply) {
	audio, format, err := h.synth.Synthesize(r.Context(), reply.Text, reply.Language)
	if err != nil {
		log.Printf("[chatbot] websocket synthesis failed: %v", err)
		return
	}
	h.writeFrame(conn, wsFrame{
		Type:     "audio",
		Language: reply.Language,
		Audio:    base64.StdEncoding.EncodeToString(audio),
		Format:   format,
	})
}

func (h *Handler) writeFrame(conn *websocket.Conn, frame wsFrame) {
	frame.Timestamp = time.Now().UnixMilli()
	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("[chatbot] websocket write failed: %v", err)
	}
}
