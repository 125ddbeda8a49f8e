package events

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

func TestPublishDeliversToTypedAndPatternHandlers(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	ctx := context.Background()

	var got *BadgeAwardedEvent
	var patternCalls int
	require.NoError(t, bus.Subscribe(TypeBadgeAwarded, NewTypedEventHandler("typed",
		func(_ context.Context, e *BadgeAwardedEvent) error {
			got = e
			return nil
		})))
	require.NoError(t, bus.SubscribePattern("badge.*", NewEventHandlerFunc("pattern",
		func(context.Context, Event) error {
			patternCalls++
			return nil
		})))

	require.NoError(t, bus.Publish(ctx, NewBadgeAwardedEvent("user_1", "netflix_master", "Netflix Master", "📺")))
	require.NotNil(t, got)
	assert.Equal(t, "user_1", got.GetUserID())
	assert.Equal(t, "netflix_master", got.BadgeID)
	assert.Equal(t, 1, patternCalls)

	require.NoError(t, bus.Publish(ctx, NewJobAppliedEvent("user_1", "job_1", "t", "c")))
	assert.Equal(t, 1, patternCalls)

	stats := bus.Stats()
	assert.EqualValues(t, 2, stats.EventsPublished)
	assert.Equal(t, 2, stats.HandlersCount)
}

func TestPublishReportsHandlerFailures(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	require.NoError(t, bus.Subscribe(TypePostCreated, NewEventHandlerFunc("fails",
		func(context.Context, Event) error { return errors.New("boom") })))
	require.NoError(t, bus.Subscribe(TypePostCreated, NewEventHandlerFunc("panics",
		func(context.Context, Event) error { panic("nope") })))

	err := bus.Publish(context.Background(), NewPostEvent(TypePostCreated, "user_1", "post_1", "user_1", "Jean"))
	assert.Error(t, err)
	assert.EqualValues(t, 1, bus.Stats().EventsFailed)
}

func TestPublishAsync(t *testing.T) {
	bus := NewEventBus(&EventBusConfig{BufferSize: 4, WorkerCount: 1, HandlerTimeout: time.Second}, zap.NewNop())
	var calls atomic.Int32
	require.NoError(t, bus.Subscribe(TypeUserLoggedIn, NewEventHandlerFunc("count",
		func(context.Context, Event) error {
			calls.Add(1)
			return nil
		})))
	require.NoError(t, bus.Start(context.Background()))

	require.NoError(t, bus.PublishAsync(context.Background(), NewUserEvent(TypeUserLoggedIn, "user_1", "Jean")))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.Error(t, bus.Health())
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil, zap.NewNop())
	h := NewEventHandlerFunc("h", func(context.Context, Event) error { return nil })
	require.NoError(t, bus.Subscribe(TypeJobApplied, h))
	require.NoError(t, bus.Unsubscribe(TypeJobApplied, h))
	assert.Error(t, bus.Unsubscribe(TypeJobApplied, h))
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		eventType, pattern string
		want               bool
	}{
		{"badge.awarded", "*", true},
		{"badge.awarded", "badge.*", true},
		{"post.created", "badge.*", false},
		{"post.created", "post.created", true},
	}
	for _, tt := range tests {
		t.Run(tt.eventType+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPattern(tt.eventType, tt.pattern))
		})
	}
}
