package hub_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workboards/workboards/internal/hub"
)

// recordingSink captures delivered payloads and can be told to fail.
type recordingSink struct {
	mu       sync.Mutex
	payloads [][]byte
	fail     bool
}

func (s *recordingSink) Send(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("connection closed")
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *recordingSink) received() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.payloads))
	copy(out, s.payloads)
	return out
}

func TestHub_PublishDeliversToBoardSubscribersOnly(t *testing.T) {
	t.Parallel()

	h := hub.New()
	boardA, boardB := uuid.New(), uuid.New()

	sinkA1, sinkA2, sinkB := &recordingSink{}, &recordingSink{}, &recordingSink{}
	h.Subscribe(boardA, sinkA1)
	h.Subscribe(boardA, sinkA2)
	h.Subscribe(boardB, sinkB)

	h.Publish(context.Background(), boardA, []byte(`{"type":"item.created"}`))

	assert.Len(t, sinkA1.received(), 1)
	assert.Len(t, sinkA2.received(), 1)
	assert.Empty(t, sinkB.received(), "subscribers of a different board must receive nothing")
}

func TestHub_PublishWithNoSubscribersIsNoop(t *testing.T) {
	t.Parallel()

	h := hub.New()
	h.Publish(context.Background(), uuid.New(), []byte("x"))
}

func TestHub_NoReplayForLateSubscribers(t *testing.T) {
	t.Parallel()

	h := hub.New()
	boardID := uuid.New()

	h.Publish(context.Background(), boardID, []byte("before"))

	late := &recordingSink{}
	h.Subscribe(boardID, late)
	assert.Empty(t, late.received(), "events published before subscribing are gone")

	h.Publish(context.Background(), boardID, []byte("after"))
	require.Len(t, late.received(), 1)
	assert.Equal(t, []byte("after"), late.received()[0])
}

func TestHub_Unsubscribe(t *testing.T) {
	t.Parallel()

	h := hub.New()
	boardID := uuid.New()

	sink := &recordingSink{}
	sub := h.Subscribe(boardID, sink)
	require.Equal(t, 1, h.SubscriberCount(boardID))

	h.Unsubscribe(sub)
	assert.Equal(t, 0, h.SubscriberCount(boardID))

	// Idempotent: removing again is a no-op.
	h.Unsubscribe(sub)
	h.Unsubscribe(nil)

	h.Publish(context.Background(), boardID, []byte("x"))
	assert.Empty(t, sink.received())
}

func TestHub_FailedSendDisconnectsSubscriber(t *testing.T) {
	t.Parallel()

	h := hub.New()
	boardID := uuid.New()

	healthy := &recordingSink{}
	broken := &recordingSink{fail: true}
	h.Subscribe(boardID, healthy)
	h.Subscribe(boardID, broken)
	require.Equal(t, 2, h.SubscriberCount(boardID))

	h.Publish(context.Background(), boardID, []byte("one"))

	// The failing sink is dropped on first failed write; the healthy one
	// is unaffected.
	assert.Equal(t, 1, h.SubscriberCount(boardID))
	assert.Len(t, healthy.received(), 1)

	broken.mu.Lock()
	broken.fail = false
	broken.mu.Unlock()

	h.Publish(context.Background(), boardID, []byte("two"))
	assert.Empty(t, broken.received(), "a dropped subscriber must never be delivered to again")
	assert.Len(t, healthy.received(), 2)
}

func TestHub_LastUnsubscribeDropsBoardEntry(t *testing.T) {
	t.Parallel()

	h := hub.New()
	boardID := uuid.New()

	a := h.Subscribe(boardID, &recordingSink{})
	b := h.Subscribe(boardID, &recordingSink{})

	h.Unsubscribe(a)
	assert.Equal(t, 1, h.SubscriberCount(boardID))
	h.Unsubscribe(b)
	assert.Equal(t, 0, h.SubscriberCount(boardID))
}

// TestHub_ConcurrentAccess exercises subscribe/unsubscribe/publish from
// independent goroutines; run with -race.
func TestHub_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	h := hub.New()
	boards := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				boardID := boards[(n+j)%len(boards)]
				sub := h.Subscribe(boardID, &recordingSink{})
				h.Publish(context.Background(), boardID, []byte("payload"))
				h.Unsubscribe(sub)
			}
		}(i)
	}
	wg.Wait()

	for _, boardID := range boards {
		assert.Equal(t, 0, h.SubscriberCount(boardID))
	}
}
