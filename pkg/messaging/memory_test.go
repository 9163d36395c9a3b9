package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-records/pkg/logger"
)

func TestMemoryBrokerDelivers(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	msgs, err := b.Subscribe(ctx, "changes")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "changes", map[string]string{"op": "add"}))
	require.NoError(t, b.Publish(ctx, "other", map[string]string{"op": "skip"}))

	select {
	case msg := <-msgs:
		assert.JSONEq(t, `{"op":"add"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
	assert.Len(t, msgs, 0)
}

func TestMemoryBrokerUnsubscribesOnCancel(t *testing.T) {
	b := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	msgs, err := b.Subscribe(ctx, "changes")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestMemoryBrokerClose(t *testing.T) {
	b := NewMemoryBroker()
	msgs, err := b.Subscribe(context.Background(), "changes")
	require.NoError(t, err)

	require.NoError(t, b.Close())
	_, ok := <-msgs
	assert.False(t, ok)

	assert.ErrorIs(t, b.Publish(context.Background(), "changes", "x"), ErrClosed)
	_, err = b.Subscribe(context.Background(), "changes")
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, b.Close())
}

func TestConsumeKeepsGoingAfterHandlerError(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []string
		wg   sync.WaitGroup
	)
	wg.Add(2)
	err := Consume(ctx, b, "changes", logger.Nop(), func(msg []byte) error {
		defer wg.Done()
		mu.Lock()
		seen = append(seen, string(msg))
		mu.Unlock()
		return errors.New("boom")
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "changes", 1))
	require.NoError(t, b.Publish(ctx, "changes", 2))
	wg.Wait()

	assert.Equal(t, []string{"1", "2"}, seen)
}
