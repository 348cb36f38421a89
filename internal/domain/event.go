package domain

import "github.com/google/uuid"

// EventType enumerates the realtime board events the core emits.
type EventType string

const (
	EventItemCreated  EventType = "item.created"
	EventItemUpdated  EventType = "item.updated"
	EventItemDeleted  EventType = "item.deleted"
	EventItemRestored EventType = "item.restored"
)

// Event is the immutable record published for every successful item
// mutation. The wire shape is {"type": ..., "item": <full record>}; the
// board ID routes the event but is not part of the payload, since
// subscribers are already scoped to one board.
type Event struct {
	Type    EventType `json:"type"`
	BoardID uuid.UUID `json:"-"`
	Item    *Item     `json:"item"`
}
