package bus_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/beacon/internal/bus"
	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestBus_PublishFanOut(t *testing.T) {
	b := bus.New()
	ctx := context.Background()

	var got1, got2 []string
	sub1 := b.Subscribe("notice:v1", func(n model.Notice) { got1 = append(got1, n.Title) })
	sub2 := b.Subscribe("notice:v1", func(n model.Notice) { got2 = append(got2, n.Title) })
	other := b.Subscribe("notice:v2", func(n model.Notice) { t.Error("wrong channel delivery") })
	defer b.Unsubscribe(sub1)
	defer b.Unsubscribe(sub2)
	defer b.Unsubscribe(other)

	delivered := b.Publish(ctx, "notice:v1", model.Notice{ID: "n1", Title: "hello"})

	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"hello"}, got1)
	assert.Equal(t, []string{"hello"}, got2)
}

func TestBus_PublishEmptyChannel(t *testing.T) {
	b := bus.New()

	delivered := b.Publish(context.Background(), "notice:nobody", model.Notice{ID: "n1"})

	assert.Equal(t, 0, delivered)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := bus.New()
	ctx := context.Background()

	calls := 0
	sub := b.Subscribe("notice:v1", func(model.Notice) { calls++ })
	require.Equal(t, 1, b.SubscriberCount())

	b.Publish(ctx, "notice:v1", model.Notice{ID: "n1"})
	b.Unsubscribe(sub)
	b.Publish(ctx, "notice:v1", model.Notice{ID: "n2"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, b.SubscriberCount())

	// Idempotent: removing again, or removing nil, is a no-op.
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	b := bus.New()
	ctx := context.Background()

	var after []string
	p := b.Subscribe("notice:v1", func(model.Notice) { panic("boom") })
	ok := b.Subscribe("notice:v1", func(n model.Notice) { after = append(after, n.ID) })
	defer b.Unsubscribe(p)
	defer b.Unsubscribe(ok)

	require.NotPanics(t, func() {
		b.Publish(ctx, "notice:v1", model.Notice{ID: "n1"})
	})

	// The healthy subscriber still got the notice, and the bus still works.
	assert.Equal(t, []string{"n1"}, after)
	b.Publish(ctx, "notice:v1", model.Notice{ID: "n2"})
	assert.Equal(t, []string{"n1", "n2"}, after)
}

func TestBus_SubscriptionChannel(t *testing.T) {
	b := bus.New()

	sub := b.Subscribe("notice:v1", func(model.Notice) {})
	defer b.Unsubscribe(sub)

	assert.Equal(t, "notice:v1", sub.Channel())
}
