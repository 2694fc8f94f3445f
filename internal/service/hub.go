package service

import (
	"sync"

	"ghost-word-be/internal/service/game"

	"go.uber.org/zap"
)

// Hub 维护所有在线连接的响应通道，用于跨房间的全局广播
// （如房间列表变更通知）
type Hub struct {
	mu    sync.RWMutex
	conns map[string]chan game.ResponseWrapper
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]chan game.ResponseWrapper),
	}
}

func (h *Hub) Register(connID string, respCh chan game.ResponseWrapper) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[connID] = respCh

	zap.L().Debug(
		"连接注册到全局广播",
		zap.String("conn_id", connID),
		zap.Int("total", len(h.conns)),
	)
}

func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, connID)
}

// Broadcast 向所有在线连接发送响应，通道已满的连接直接跳过
func (h *Hub) Broadcast(resp game.ResponseWrapper) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, respCh := range h.conns {
		select {
		case respCh <- resp:
		default:
			zap.L().Warn(
				"全局广播失败：连接响应通道已满",
				zap.String("conn_id", connID),
				zap.String("response_type", resp.RespType),
			)
		}
	}
}

func (h *Hub) Send(connID string, resp game.ResponseWrapper) bool {
	h.mu.RLock()
	respCh, ok := h.conns[connID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	select {
	case respCh <- resp:
		return true
	default:
		zap.L().Warn(
			"单播失败：连接响应通道已满",
			zap.String("conn_id", connID),
		)
		return false
	}
}
