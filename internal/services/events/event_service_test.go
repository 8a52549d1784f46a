package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/mymind-ai/mymind/internal/interfaces"
)

func TestSubscribeRejectsNilHandler(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	assert.Error(t, svc.Subscribe(interfaces.EventEntryAdded, nil))
}

func TestPublishSync_AllHandlersRun(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	var calls int64
	for i := 0; i < 3; i++ {
		err := svc.Subscribe(interfaces.EventEntryAdded, func(ctx context.Context, event interfaces.Event) error {
			atomic.AddInt64(&calls, 1)
			return nil
		})
		require.NoError(t, err)
	}

	err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventEntryAdded})
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}

func TestPublishSync_ReportsHandlerErrors(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	require.NoError(t, svc.Subscribe(interfaces.EventReindexTriggered, func(ctx context.Context, event interfaces.Event) error {
		return fmt.Errorf("handler failed")
	}))

	err := svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventReindexTriggered})
	assert.Error(t, err)
}

func TestPublish_NoSubscribersIsNoop(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	assert.NoError(t, svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventReminderFired}))
}

func TestPublish_Async(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	done := make(chan struct{})
	require.NoError(t, svc.Subscribe(interfaces.EventReminderFired, func(ctx context.Context, event interfaces.Event) error {
		close(done)
		return nil
	}))

	require.NoError(t, svc.Publish(context.Background(), interfaces.Event{Type: interfaces.EventReminderFired}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestClose_DropsSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	var calls int64
	require.NoError(t, svc.Subscribe(interfaces.EventEntryAdded, func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}))
	require.NoError(t, svc.Close())

	require.NoError(t, svc.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventEntryAdded}))
	assert.Zero(t, atomic.LoadInt64(&calls))
}
