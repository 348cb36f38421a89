// Package hub fans realtime board events out to connected subscribers.
// It is an ephemeral live-view feed: no buffering, no replay, and a
// subscriber that misses an event never receives it later.
package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Sink delivers one serialized event to a subscriber. Implementations are
// transport-owned (a websocket connection, a test recorder).
type Sink interface {
	Send(ctx context.Context, payload []byte) error
}

// Subscription is the handle returned by Subscribe; pass it back to
// Unsubscribe on disconnect.
type Subscription struct {
	boardID uuid.UUID
	sink    Sink
}

// Hub is the per-board subscriber registry. Registry mutation is serialized
// behind one mutex; fan-out delivery happens outside the lock so one slow
// sink cannot stall subscribe/unsubscribe traffic.
type Hub struct {
	mu     sync.Mutex
	boards map[uuid.UUID]map[*Subscription]struct{}
}

func New() *Hub {
	return &Hub{boards: make(map[uuid.UUID]map[*Subscription]struct{})}
}

// Subscribe registers sink under the board's subscriber set. Registration
// never touches the network.
func (h *Hub) Subscribe(boardID uuid.UUID, sink Sink) *Subscription {
	sub := &Subscription{boardID: boardID, sink: sink}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.boards[boardID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.boards[boardID] = set
	}
	set[sub] = struct{}{}

	return sub
}

// Unsubscribe removes sub from its board's set. Idempotent: removing an
// already-removed handle is a no-op. The board entry is dropped once its
// last subscriber leaves.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.boards[sub.boardID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.boards, sub.boardID)
	}
}

// Publish delivers payload to every sink currently subscribed to boardID,
// best-effort. A sink whose send fails is disconnected on first failed
// write and removed from the registry; other sinks are unaffected.
func (h *Hub) Publish(ctx context.Context, boardID uuid.UUID, payload []byte) {
	h.mu.Lock()
	set := h.boards[boardID]
	subs := make([]*Subscription, 0, len(set))
	for sub := range set {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.sink.Send(ctx, payload); err != nil {
			log.Debug().Err(err).Str("board_id", boardID.String()).Msg("hub: dropping subscriber after failed send")
			h.Unsubscribe(sub)
		}
	}
}

// SubscriberCount reports the number of live subscribers for a board.
func (h *Hub) SubscriberCount(boardID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.boards[boardID])
}
