package di_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sijoonlee/beanlab/di"
)

// greeterListener is a bean that listens for refresh and resolves another
// bean while handling it.
type greeterListener struct {
	Greeter Greeter `inject:""`
	heard   []string
}

func (g *greeterListener) OnApplicationEvent(ctx context.Context, ev di.Event) error {
	if e, ok := ev.(di.ContextRefreshedEvent); ok {
		other, err := di.Resolve[Greeter](e.Context)
		if err != nil {
			return err
		}
		g.heard = append(g.heard, other.Greet())
	}
	return nil
}

func TestRefresh_DiscoversListenerBeans(t *testing.T) {
	t.Parallel()

	c := di.New()
	require.NoError(t, c.Provide("english", func() Greeter { return english{} }))
	require.NoError(t, c.Component(func() *greeterListener { return &greeterListener{} }))
	refreshed(t, c)

	l, err := di.ResolveNamed[*greeterListener](c, "greeterListener")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, l.heard)
}

func TestListen_TypedAndOrdered(t *testing.T) {
	t.Parallel()

	c := di.New()
	var got []string
	di.Listen(c, func(_ context.Context, ev di.ContextRefreshedEvent) error {
		got = append(got, "refreshed-1")
		return nil
	})
	di.Listen(c, func(_ context.Context, ev di.ContextClosedEvent) error {
		got = append(got, "closed")
		return nil
	})
	di.Listen(c, func(_ context.Context, ev di.ContextRefreshedEvent) error {
		got = append(got, "refreshed-2")
		return nil
	})
	di.Listen[di.ContextClosedEvent](c, nil)

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	assert.Equal(t, []string{"refreshed-1", "refreshed-2", "closed"}, got)
}

type customEvent struct{ payload string }

func (customEvent) EventName() string { return "custom" }

func TestPublish_CustomEvent(t *testing.T) {
	t.Parallel()

	rec := &di.EventRecorder{}
	c := di.New()
	c.AddListener(rec)
	c.AddListener(nil)

	var payload string
	di.Listen(c, func(_ context.Context, ev customEvent) error {
		payload = ev.payload
		return nil
	})

	require.NoError(t, c.Refresh(context.Background()))
	require.NoError(t, c.Publish(context.Background(), customEvent{payload: "hi"}))
	require.NoError(t, c.Close(context.Background()))

	assert.Equal(t, "hi", payload)
	assert.Equal(t, []string{"context.refreshed", "custom", "context.closed"}, rec.Names())
}

func TestPublish_FirstErrorStops(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	rec := &di.EventRecorder{}
	c := di.New()
	c.AddListener(di.ListenerFunc(func(context.Context, di.Event) error { return boom }))
	c.AddListener(rec)

	err := c.Publish(context.Background(), customEvent{})
	require.ErrorIs(t, err, boom)

	var lerr di.ListenerError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "custom", lerr.Event)
	assert.Empty(t, rec.Names())
}

func TestPublish_CancelledContext(t *testing.T) {
	t.Parallel()

	rec := &di.EventRecorder{}
	c := di.New()
	c.AddListener(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Publish(ctx, customEvent{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.Names())
}

func TestClose_WithoutRefreshPublishesNothing(t *testing.T) {
	t.Parallel()

	rec := &di.EventRecorder{}
	c := di.New()
	c.AddListener(rec)

	require.NoError(t, c.Close(context.Background()))
	assert.Empty(t, rec.Names())
}
