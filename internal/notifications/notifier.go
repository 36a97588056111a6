// Package notifications carries discussion change events between instances
// over Redis pub/sub and fans them out to websocket subscribers.
package notifications

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"alcove/internal/observability"

	"github.com/redis/go-redis/v9"
)

const postChannelPrefix = "discussion:post:"

// PostChannel derives the Redis channel name for a post's discussion.
func PostChannel(postID uint) string {
	return postChannelPrefix + strconv.FormatUint(uint64(postID), 10)
}

// Notifier publishes and subscribes to per-post change channels. The payload
// is the event name only; it is advisory, subscribers reload on receipt.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client degrades to a single-instance no-op notifier.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishPostChange announces that some comment row of the post changed.
func (n *Notifier) PublishPostChange(ctx context.Context, postID uint, event string) error {
	if n.rdb == nil {
		return nil
	}
	if err := n.rdb.Publish(ctx, PostChannel(postID), event).Err(); err != nil {
		return err
	}
	observability.ChangeEventsPublished.WithLabelValues(event).Inc()
	return nil
}

// SubscribePost delivers every event on the post's channel to fn until the
// returned unsubscribe function is called or ctx is cancelled. Unsubscribe is
// idempotent and releases the Redis subscription deterministically.
func (n *Notifier) SubscribePost(ctx context.Context, postID uint, fn func(event string)) (func(), error) {
	if n.rdb == nil {
		return func() {}, nil
	}

	sub := n.rdb.Subscribe(ctx, PostChannel(postID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	ch := sub.Channel()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in post subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					fn(msg.Payload)
				}()
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return unsubscribe, nil
}

// StartPatternSubscriber subscribes to every post channel and calls onMessage
// with the parsed post ID for each event. Used by the websocket hub so one
// Redis subscription serves all connected browsers.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(postID uint, event string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, postChannelPrefix+"*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				postID, err := parsePostChannel(msg.Channel)
				if err != nil {
					log.Printf("invalid discussion channel: %s", msg.Channel)
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in pattern subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(postID, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

func parsePostChannel(channel string) (uint, error) {
	raw, ok := strings.CutPrefix(channel, postChannelPrefix)
	if !ok {
		return 0, fmt.Errorf("channel %q lacks prefix %q", channel, postChannelPrefix)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
