package hub

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workboards/workboards/internal/domain"
)

// Mirror republishes serialized events outside the process, e.g. to a Redis
// channel for other replicas or external consumers. May be nil.
type Mirror interface {
	PublishBoard(ctx context.Context, boardID uuid.UUID, payload []byte) error
}

// Dispatcher is the message-passing boundary between the mutation pipeline
// and the hub: the pipeline only writes domain.Events to a channel, so a
// failure during fan-out can never propagate back into a mutation.
type Dispatcher struct {
	hub    *Hub
	mirror Mirror
	events <-chan domain.Event
}

func NewDispatcher(h *Hub, mirror Mirror, events <-chan domain.Event) *Dispatcher {
	return &Dispatcher{hub: h, mirror: mirror, events: events}
}

// Run drains the event channel until ctx is canceled or the channel closes.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.events:
			if !ok {
				return
			}
			d.dispatch(ctx, ev)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, ev domain.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", string(ev.Type)).Msg("dispatcher: marshal event")
		return
	}

	d.hub.Publish(ctx, ev.BoardID, payload)

	if d.mirror != nil {
		if err := d.mirror.PublishBoard(ctx, ev.BoardID, payload); err != nil {
			log.Warn().Err(err).Str("board_id", ev.BoardID.String()).Msg("dispatcher: mirror publish")
		}
	}
}
