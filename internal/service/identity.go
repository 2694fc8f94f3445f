package service

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// 展示名的最大长度（按字符计）
const MAX_NAME_LEN = 15

// IdentityService 维护连接与展示名、会话令牌之间的映射
// 会话令牌由客户端持有，断线重连后凭令牌恢复之前设置的名字
type IdentityService struct {
	mu sync.RWMutex

	// 均为从 ID 到实体的映射
	connNames    map[string]string // 连接 ID -> 展示名
	sessionNames map[string]string // 会话令牌 -> 展示名
	connSessions map[string]string // 连接 ID -> 会话令牌
}

func NewIdentityService() *IdentityService {
	return &IdentityService{
		connNames:    make(map[string]string),
		sessionNames: make(map[string]string),
		connSessions: make(map[string]string),
	}
}

// SetName 为连接设置展示名，名字会被裁剪并截断
// 空白名字不做任何变更，返回 false
func (is *IdentityService) SetName(connID, name, sessionToken string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	if r := []rune(name); len(r) > MAX_NAME_LEN {
		name = string(r[:MAX_NAME_LEN])
	}

	is.mu.Lock()
	defer is.mu.Unlock()

	is.connNames[connID] = name

	if sessionToken != "" {
		is.sessionNames[sessionToken] = name
		is.connSessions[connID] = sessionToken
	}

	zap.L().Info(
		"玩家设置名字",
		zap.String("conn_id", connID),
		zap.String("name", name),
	)

	return name, true
}

// ResolveSession 用会话令牌恢复名字，成功时把名字挂到当前连接上
func (is *IdentityService) ResolveSession(connID, sessionToken string) (string, bool) {
	if sessionToken == "" {
		return "", false
	}

	is.mu.Lock()
	defer is.mu.Unlock()

	name, ok := is.sessionNames[sessionToken]
	if !ok {
		return "", false
	}

	is.connNames[connID] = name
	is.connSessions[connID] = sessionToken

	zap.L().Info(
		"会话恢复成功",
		zap.String("conn_id", connID),
		zap.String("name", name),
	)

	return name, true
}

// OnDisconnect 清理连接级映射
// 会话令牌对应的名字保留，等待同一令牌的重连
func (is *IdentityService) OnDisconnect(connID string) {
	is.mu.Lock()
	defer is.mu.Unlock()

	delete(is.connNames, connID)
	delete(is.connSessions, connID)
}

// DisplayName 返回连接的展示名
// 依次尝试连接级名字、会话令牌对应的名字，最后退回连接 ID 前缀
func (is *IdentityService) DisplayName(connID string) string {
	is.mu.RLock()
	defer is.mu.RUnlock()

	if name, ok := is.connNames[connID]; ok {
		return name
	}

	if token, ok := is.connSessions[connID]; ok {
		if name, ok := is.sessionNames[token]; ok {
			return name
		}
	}

	suffix := connID
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}

	return "玩家 " + suffix
}

// KnownName 只返回显式设置过的名字，不提供退化值
func (is *IdentityService) KnownName(connID string) (string, bool) {
	is.mu.RLock()
	defer is.mu.RUnlock()

	name, ok := is.connNames[connID]

	return name, ok
}
