// Package bus is the in-process publish/subscribe router for notices.
//
// Channels are plain strings (one per volunteer, see model.NoticeChannel)
// and need no explicit creation: a channel nobody subscribes to simply has
// zero subscribers. Publish is synchronous with respect to the caller and
// fans out to a snapshot of the subscribers registered at call time; a
// handler that panics is contained, logged and counted, and never reaches
// the publisher or the channel's other handlers.
//
// Handlers must not block: slow transports hang their own buffered channel
// off the handler (see app.Service.SubscribeNotices), never the bus.
package bus

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/volunteerhub/beacon/internal/domain/model"
	"github.com/volunteerhub/beacon/pkg/logger"
	"github.com/volunteerhub/beacon/pkg/metrics"
)

// Handler receives one published notice.
type Handler func(n model.Notice)

// Subscription identifies one registered handler for later removal.
type Subscription struct {
	channel string
	id      uint64
}

// Channel returns the routing key the subscription is registered on.
func (s *Subscription) Channel() string {
	return s.channel
}

// Bus routes published notices to channel subscribers.
type Bus struct {
	channels *xsync.Map[string, *hub]
	nextID   atomic.Uint64
	logger   logger.Logger
}

// hub holds the subscribers of one channel.
type hub struct {
	subs *xsync.Map[uint64, Handler]
}

// Option applies a configuration option to the Bus.
type Option func(*Bus)

// WithLogger sets a custom logger for the bus.
func WithLogger(l logger.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates an empty bus with configuration options.
func New(opts ...Option) *Bus {
	b := &Bus{
		channels: xsync.NewMap[string, *hub](),
		logger:   logger.Get().Named("bus"),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers a handler on the channel and returns its subscription
// handle. The channel is materialized on demand.
func (b *Bus) Subscribe(channel string, h Handler) *Subscription {
	id := b.nextID.Add(1)
	hb, _ := b.channels.LoadOrStore(channel, &hub{subs: xsync.NewMap[uint64, Handler]()})
	hb.subs.Store(id, h)
	metrics.UpdateActiveSubscriptions(b.SubscriberCount())
	return &Subscription{channel: channel, id: id}
}

// Unsubscribe removes the subscription. Removing one that is nil or already
// removed is a no-op, not an error.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	if hb, ok := b.channels.Load(sub.channel); ok {
		hb.subs.Delete(sub.id)
	}
	metrics.UpdateActiveSubscriptions(b.SubscriberCount())
}

// Publish synchronously invokes every handler registered on the channel at
// the moment of the call and returns the number of delivery attempts.
// Publishing on a channel with no subscribers delivers to nobody and is not
// an error.
func (b *Bus) Publish(ctx context.Context, channel string, n model.Notice) int {
	hb, ok := b.channels.Load(channel)
	if !ok {
		metrics.RecordBusPublish(0)
		return 0
	}

	// Snapshot first so a handler unsubscribing mid-publish cannot perturb
	// the fan-out.
	handlers := make([]Handler, 0, hb.subs.Size())
	hb.subs.Range(func(_ uint64, h Handler) bool {
		handlers = append(handlers, h)
		return true
	})

	for _, h := range handlers {
		b.invoke(ctx, channel, h, n)
	}
	metrics.RecordBusPublish(len(handlers))
	return len(handlers)
}

// SubscriberCount reports the number of registered subscriptions across all
// channels.
func (b *Bus) SubscriberCount() int {
	total := 0
	b.channels.Range(func(_ string, hb *hub) bool {
		total += hb.subs.Size()
		return true
	})
	return total
}

// invoke runs one handler, containing panics so a failing subscriber never
// reaches the publisher or its channel peers.
func (b *Bus) invoke(ctx context.Context, channel string, h Handler, n model.Notice) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordBusHandlerPanic()
			b.logger.Error(ctx, "subscriber handler panicked",
				logger.String("channel", channel),
				logger.String("noticeID", n.ID),
				logger.Any("panic", r),
			)
		}
	}()
	h(n)
}
