// Package gateway bridges redis pub/sub to websocket clients. Each user
// holds at most one connection; events published on their channel are
// forwarded verbatim.
package gateway

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pongarena/play/internal/notify"
	"pongarena/play/internal/utils"
)

type Gateway struct {
	rdb       *redis.Client
	jwtSecret []byte
	logger    *zap.Logger
	upgrader  websocket.Upgrader

	mu          sync.Mutex
	connections map[string]*websocket.Conn
}

func New(rdb *redis.Client, jwtSecret []byte, logger *zap.Logger) *Gateway {
	return &Gateway{
		rdb:       rdb,
		jwtSecret: jwtSecret,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		connections: make(map[string]*websocket.Conn),
	}
}

// WsHandler upgrades the request and registers the connection. A second
// connection for the same user replaces the first.
func (g *Gateway) WsHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, err := utils.CallerID(r, g.jwtSecret)
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	g.mu.Lock()
	if prev, ok := g.connections[userID]; ok {
		prev.Close()
	}
	g.connections[userID] = conn
	g.mu.Unlock()
	g.logger.Info("websocket connected", zap.String("user", userID))

	for {
		if _, _, err := conn.NextReader(); err != nil {
			g.mu.Lock()
			if g.connections[userID] == conn {
				delete(g.connections, userID)
			}
			g.mu.Unlock()
			conn.Close()
			g.logger.Info("websocket disconnected", zap.String("user", userID))
			break
		}
	}
}

// Run subscribes to the per-user event channels and forwards payloads to
// live connections until the context is cancelled.
func (g *Gateway) Run(ctx context.Context) {
	sub := g.rdb.PSubscribe(ctx, notify.ChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			userID := strings.TrimPrefix(msg.Channel, notify.ChannelPrefix)
			g.send(userID, []byte(msg.Payload))
		}
	}
}

func (g *Gateway) send(userID string, payload []byte) {
	g.mu.Lock()
	conn, ok := g.connections[userID]
	g.mu.Unlock()
	if !ok {
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		g.logger.Warn("websocket send failed", zap.String("user", userID), zap.Error(err))
		g.mu.Lock()
		if g.connections[userID] == conn {
			delete(g.connections, userID)
		}
		g.mu.Unlock()
		conn.Close()
	}
}

// Connected reports whether the user has a live websocket.
func (g *Gateway) Connected(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.connections[userID]
	return ok
}
