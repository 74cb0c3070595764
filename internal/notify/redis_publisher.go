package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelPrefix is the per-user pub/sub channel namespace. The gateway
// subscribes to the matching pattern and forwards payloads to live
// websocket connections.
const ChannelPrefix = "events:"

// Envelope is the wire form of a pushed event.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// RedisPublisher fans events out over redis pub/sub, one channel per
// recipient. At-least-once delivery is the transport's concern.
type RedisPublisher struct {
	ctx    context.Context
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{ctx: context.Background(), rdb: rdb, logger: logger}
}

func (p *RedisPublisher) Publish(event string, recipients []string, payload interface{}) {
	body, err := json.Marshal(Envelope{Type: event, Data: payload})
	if err != nil {
		p.logger.Error("failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}
	for _, userID := range recipients {
		channel := fmt.Sprintf("%s%s", ChannelPrefix, userID)
		if err := p.rdb.Publish(p.ctx, channel, body).Err(); err != nil {
			p.logger.Warn("event publish failed",
				zap.String("event", event), zap.String("user", userID), zap.Error(err))
		}
	}
}
