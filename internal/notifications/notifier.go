package notifications

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	broadcastChannel  = "forum:events"
	userChannelPrefix = "notifications:user:"
)

// Notifier publishes events into Redis channels. All methods are no-ops on a
// nil Redis client so single-instance deployments without Redis still run.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEvent sends a forum event to every connected client on every
// instance.
func (n *Notifier) PublishEvent(ctx context.Context, event Event) error {
	if n.rdb == nil {
		return nil
	}
	payload := event.Encode()
	if payload == "" {
		return nil
	}
	return n.rdb.Publish(ctx, broadcastChannel, payload).Err()
}

// PublishUser sends a payload to a single user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartSubscriber subscribes to the broadcast and per-user channels and calls
// onMessage for each incoming message until ctx is cancelled.
func (n *Notifier) StartSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, broadcastChannel, userChannelPrefix+"*")
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
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in event subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// ParseUserChannel extracts the user ID from a per-user channel name.
func ParseUserChannel(channel string) (uint, bool) {
	var userID uint
	if _, err := fmt.Sscanf(channel, userChannelPrefix+"%d", &userID); err != nil {
		return 0, false
	}
	return userID, true
}
