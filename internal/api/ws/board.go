// Package ws terminates websocket connections and adapts each one into a
// hub sink. The core never sees the transport; it only calls Send.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workboards/workboards/internal/hub"
)

const writeTimeout = 5 * time.Second

// Handler serves the per-board live event feed.
type Handler struct {
	hub *hub.Hub
}

func NewHandler(h *hub.Hub) *Handler {
	return &Handler{hub: h}
}

// ServeBoard upgrades the connection, subscribes it to the board's feed,
// and blocks draining inbound frames until the client goes away. Closing
// the connection is the unsubscribe signal; there is no other protocol.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	boardID, err := uuid.Parse(chi.URLParam(r, "boardID"))
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	sub := h.hub.Subscribe(boardID, &connSink{conn: conn})
	defer h.hub.Unsubscribe(sub)

	log.Debug().Str("board_id", boardID.String()).Msg("websocket subscribed")

	// Drain and ignore inbound frames; a read error means the client
	// disconnected.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		}
	}
}

// connSink adapts a websocket connection to the hub.Sink interface.
type connSink struct {
	conn *websocket.Conn
}

func (s *connSink) Send(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.conn.Write(ctx, websocket.MessageText, payload)
}
