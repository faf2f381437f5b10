package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishCallsEverySubscriber(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("сбой слушателя")
	})
	bus.Subscribe("other", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 100)
		return nil
	})

	bus.Publish(context.Background(), pingEvent{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Wait(ctx))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestBus_ListenerOutlivesCanceledPublisher(t *testing.T) {
	bus := New(zap.NewNop())
	var sawCanceled atomic.Bool

	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		sawCanceled.Store(ctx.Err() != nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{})

	waitCtx, stop := context.WithTimeout(context.Background(), time.Second)
	defer stop()
	require.NoError(t, bus.Wait(waitCtx))
	assert.False(t, sawCanceled.Load())
}
