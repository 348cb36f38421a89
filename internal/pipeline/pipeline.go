// Package pipeline applies item mutations, derives the resulting realtime
// events, and owns the renormalization policy for lane order keys.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/workboards/workboards/internal/domain"
	"github.com/workboards/workboards/internal/order"
)

// Store is the persistence surface the pipeline mutates through.
// *postgres.Store and *memory.Store satisfy this interface.
type Store interface {
	Boards() domain.BoardRepository
	Groups() domain.GroupRepository
	Items() domain.ItemRepository
}

const defaultMaxImportRows = 1000

// Pipeline turns external mutation requests into persisted item changes
// plus exactly one event per successful mutation. Events leave through a
// channel; delivery is the dispatcher's problem, never the caller's.
type Pipeline struct {
	store         Store
	events        chan<- domain.Event
	maxImportRows int
	now           func() time.Time
}

type Option func(*Pipeline)

// WithClock overrides the pipeline's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithMaxImportRows overrides the per-batch import ceiling.
func WithMaxImportRows(n int) Option {
	return func(p *Pipeline) { p.maxImportRows = n }
}

func New(store Store, events chan<- domain.Event, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:         store,
		events:        events,
		maxImportRows: defaultMaxImportRows,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// emit hands an event to the dispatcher without ever blocking the mutation
// path. The feed is ephemeral, so when the channel is full the event is
// dropped rather than queued.
func (p *Pipeline) emit(ev domain.Event) {
	select {
	case p.events <- ev:
	default:
		log.Warn().
			Str("type", string(ev.Type)).
			Str("board_id", ev.BoardID.String()).
			Msg("pipeline: event channel full, dropping event")
	}
}

// CreateItemParams carries the create inputs. A nil Order appends at the
// tail of the resolved lane; a non-nil Order is used verbatim (the bulk
// import path precomputes spacing).
type CreateItemParams struct {
	BoardID    uuid.UUID
	GroupID    uuid.UUID
	Name       string
	Status     domain.ItemStatus // zero value defaults to Todo
	AssigneeID string
	CreatedBy  string
	DueDate    *time.Time
	Order      *float64
}

// Create inserts a new item and emits item.created.
func (p *Pipeline) Create(ctx context.Context, params CreateItemParams) (*domain.Item, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("pipeline.Create: name is required: %w", domain.ErrValidation)
	}

	status := params.Status
	if status == "" {
		status = domain.ItemStatusTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("pipeline.Create: bad status %q: %w", status, domain.ErrValidation)
	}

	if _, err := p.store.Groups().GetByID(ctx, params.BoardID, params.GroupID); err != nil {
		return nil, fmt.Errorf("pipeline.Create: resolve group: %w", err)
	}

	lane := domain.Lane{BoardID: params.BoardID, GroupID: params.GroupID, Status: status}

	var key float64
	if params.Order != nil {
		key = *params.Order
	} else {
		siblings, err := p.store.Items().ListLane(ctx, lane)
		if err != nil {
			return nil, fmt.Errorf("pipeline.Create: list lane: %w", err)
		}
		key = order.KeyBetween(order.Tail(siblings), nil)
	}

	now := p.now()
	it := &domain.Item{
		ID:         uuid.New(),
		BoardID:    params.BoardID,
		GroupID:    params.GroupID,
		Name:       params.Name,
		Order:      key,
		Status:     status,
		AssigneeID: params.AssigneeID,
		CreatedBy:  params.CreatedBy,
		DueDate:    params.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := p.store.Items().Create(ctx, it); err != nil {
		return nil, fmt.Errorf("pipeline.Create: %w", err)
	}

	p.emit(domain.Event{Type: domain.EventItemCreated, BoardID: it.BoardID, Item: it})

	return it, nil
}

// Update applies a partial patch to an item and emits one event. The event
// type is item.updated unless the patch carries the deleted field, in which
// case it is item.deleted or item.restored. The choice tracks the field's
// presence, so re-sending deleted=true on an already-deleted item re-emits
// item.deleted without re-stamping the deletion time.
func (p *Pipeline) Update(ctx context.Context, itemID uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	it, err := p.store.Items().GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("pipeline.Update: %w", err)
	}

	if patch.Empty() {
		return it, nil
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("pipeline.Update: bad status %q: %w", *patch.Status, domain.ErrValidation)
	}
	if patch.GroupID != nil {
		if _, err := p.store.Groups().GetByID(ctx, it.BoardID, *patch.GroupID); err != nil {
			return nil, fmt.Errorf("pipeline.Update: resolve group: %w", err)
		}
	}

	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.GroupID != nil {
		it.GroupID = *patch.GroupID
	}
	if patch.Status != nil {
		it.Status = *patch.Status
	}
	if patch.AssigneeID != nil {
		it.AssigneeID = *patch.AssigneeID
	}
	if patch.DueDate != nil {
		it.DueDate = patch.DueDate
	}
	if patch.Order != nil {
		it.Order = *patch.Order
		p.checkLaneHealth(ctx, it)
	}

	now := p.now()
	eventType := domain.EventItemUpdated
	if patch.Deleted != nil {
		if *patch.Deleted {
			it.SoftDelete(now)
			eventType = domain.EventItemDeleted
		} else {
			it.Restore()
			eventType = domain.EventItemRestored
		}
	}
	it.UpdatedAt = now

	if err := p.store.Items().Update(ctx, it); err != nil {
		return nil, fmt.Errorf("pipeline.Update: %w", err)
	}

	p.emit(domain.Event{Type: eventType, BoardID: it.BoardID, Item: it})

	return it, nil
}

// checkLaneHealth warns when an explicit order move lands in a collapsed
// gap. Single moves never auto-compact; renormalization runs only on an
// explicit request or after an import batch.
func (p *Pipeline) checkLaneHealth(ctx context.Context, it *domain.Item) {
	siblings, err := p.store.Items().ListLane(ctx, it.Lane())
	if err != nil {
		return
	}
	prev, next := order.Neighbors(siblings, it.Order)
	if order.NeedsCompaction(prev, next, it.Order) {
		log.Warn().
			Str("board_id", it.BoardID.String()).
			Str("group_id", it.GroupID.String()).
			Str("status", string(it.Status)).
			Msg("pipeline: lane order keys degraded, compaction recommended")
	}
}

// CompactLane renormalizes the non-deleted items of one lane and emits one
// item.updated event per changed item, preserving the per-item event
// contract subscribers patch their UI from. Returns the number of items
// whose key changed. A failing item update is a hard stop: earlier rewrites
// stay applied and the error is reported.
func (p *Pipeline) CompactLane(ctx context.Context, lane domain.Lane) (int, error) {
	items, err := p.store.Items().ListLane(ctx, lane)
	if err != nil {
		return 0, fmt.Errorf("pipeline.CompactLane: %w", err)
	}

	byID := make(map[uuid.UUID]*domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	changed := 0
	for _, rb := range order.Compact(items) {
		now := p.now()
		if err := p.store.Items().UpdateOrder(ctx, rb.ItemID, rb.Key, now); err != nil {
			return changed, fmt.Errorf("pipeline.CompactLane: rewrite key for %s: %w", rb.ItemID, err)
		}
		changed++

		it := byID[rb.ItemID]
		it.Order = rb.Key
		it.UpdatedAt = now
		p.emit(domain.Event{Type: domain.EventItemUpdated, BoardID: it.BoardID, Item: it})
	}

	return changed, nil
}
