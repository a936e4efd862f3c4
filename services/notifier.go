package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Permission change event kinds pushed to connected users.
const (
	PermissionAdded   = "PERMISSION_ADDED"
	PermissionRemoved = "PERMISSION_REMOVED"
)

// ChangeNotifier delivers permission-change events to a user's live
// connections. Delivery is fire-and-forget: the role update that produced
// the event must succeed whether or not anyone is listening.
type ChangeNotifier interface {
	NotifyPermissionChange(userID uint, kind string, permissionID uint)
}

// UserChannel is the pub/sub channel a user's event stream subscribes to.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// RedisNotifier publishes events on per-user redis channels. The SSE
// endpoint subscribes the same channels, so events reach every connected
// session regardless of which instance handled the role update.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) NotifyPermissionChange(userID uint, kind string, permissionID uint) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":          kind,
		"permission_id": permissionID,
		"timestamp":     time.Now().Unix(),
	})
	if err != nil {
		log.Printf("Failed to encode %s event for user %d: %v", kind, userID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := n.client.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		log.Printf("Failed to publish %s for user %d: %v", kind, userID, err)
	}
}
