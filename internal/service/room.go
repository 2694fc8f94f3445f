package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"ghost-word-be/internal/service/dto"
	"ghost-word-be/internal/service/game"

	"go.uber.org/zap"
)

// 空房间的清理节奏：每 30 秒扫描一次，空置满 3 分钟才删除
// 宽限期内有人重新加入则保留房间
const (
	CLEANUP_INTERVAL = 30 * time.Second
	EMPTY_ROOM_GRACE = 3 * time.Minute
)

// RoomService 是房间注册表，负责房间的创建、查找和过期清理
// 房间内部的状态由各自的 GameMachine 协程独占，注册表只读原子计数
type RoomService struct {
	state *roomServiceState

	hub      *Hub
	identity *IdentityService
	lexicon  game.Lexicon
}

type roomServiceState struct {
	mu sync.RWMutex

	// 从房间名到房间条目的映射
	rooms map[string]*roomEntry

	cleanUpDone chan struct{}
}

type roomEntry struct {
	reqCh  chan game.RequestWrapper
	doneCh chan struct{}
	stats  *game.RoomStats

	createdAt time.Time
}

func NewRoomService(hub *Hub, identity *IdentityService, lexicon game.Lexicon) *RoomService {
	state := &roomServiceState{
		rooms:       make(map[string]*roomEntry),
		cleanUpDone: make(chan struct{}),
	}

	rs := &RoomService{
		state:    state,
		hub:      hub,
		identity: identity,
		lexicon:  lexicon,
	}

	// 启动一个 goroutine 定期清理过期的房间
	go rs.startCleanupLoop()

	return rs
}

func (rs *RoomService) startCleanupLoop() {
	ticker := time.NewTicker(CLEANUP_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-rs.state.cleanUpDone:
			return

		case <-ticker.C:
			if rs.sweepEmptyRooms() {
				rs.BroadcastRoomList()
			}
		}
	}
}

// sweepEmptyRooms 删除空置超过宽限期的房间，返回是否有房间被删除
func (rs *RoomService) sweepEmptyRooms() bool {
	now := time.Now().UnixMilli()
	removed := false

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomName, entry := range rs.state.rooms {
		emptySince := entry.stats.EmptySinceMs.Load()
		if emptySince == 0 {
			continue
		}

		// 标记之后可能又有人加入了，重新确认当前人数
		if entry.stats.Members.Load() > 0 {
			continue
		}

		if now-emptySince < EMPTY_ROOM_GRACE.Milliseconds() {
			continue
		}

		zap.S().Infof(
			"房间 %s 空置超过宽限期，开始清理（存活 %s）",
			roomName,
			time.Since(entry.createdAt).Round(time.Second),
		)

		// 通知对应的房间 goroutine 退出
		// 请求通道不关闭，避免并发发送端 panic
		close(entry.doneCh)
		delete(rs.state.rooms, roomName)

		removed = true
	}

	return removed
}

func (rs *RoomService) Close() {
	close(rs.state.cleanUpDone)

	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomName, entry := range rs.state.rooms {
		close(entry.doneCh)
		delete(rs.state.rooms, roomName)
	}
}

// CreateRoom 创建房间并启动其专属协程，返回房间的请求通道
// 调用方（网关）负责把创建者的加入请求投递进去
func (rs *RoomService) CreateRoom(roomName string) (chan game.RequestWrapper, error) {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		return nil, errors.New("房间名称不能为空")
	}

	rs.state.mu.Lock()

	if _, exists := rs.state.rooms[roomName]; exists {
		rs.state.mu.Unlock()
		return nil, errors.New("房间已存在")
	}

	stats := &game.RoomStats{}
	// 创建即进入空置计时，创建者随后的加入会清除标记
	stats.EmptySinceMs.Store(time.Now().UnixMilli())

	doneCh := make(chan struct{})

	gm := game.NewGameMachine(
		roomName,
		stats,
		rs.lexicon,
		rs.identity,
		rs.BroadcastRoomList,
		doneCh,
	)

	entry := &roomEntry{
		reqCh:     gm.GetReqCh(),
		doneCh:    doneCh,
		stats:     stats,
		createdAt: gm.CreatedAt(),
	}

	rs.state.rooms[roomName] = entry

	// 房间协程独占房间状态，注册表不再触碰
	go gm.Start()

	rs.state.mu.Unlock()

	zap.S().Infof("房间 %s 已创建", roomName)

	rs.BroadcastRoomList()

	return entry.reqCh, nil
}

// RoomReqCh 查找房间的请求通道
func (rs *RoomService) RoomReqCh(roomName string) (chan game.RequestWrapper, bool) {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	entry, ok := rs.state.rooms[roomName]
	if !ok {
		return nil, false
	}

	return entry.reqCh, true
}

// RoomSummaries 返回所有房间的只读快照，键为房间名
func (rs *RoomService) RoomSummaries() map[string]dto.RoomSummary {
	rs.state.mu.RLock()
	defer rs.state.mu.RUnlock()

	summaries := make(map[string]dto.RoomSummary, len(rs.state.rooms))
	for roomName, entry := range rs.state.rooms {
		summaries[roomName] = dto.RoomSummary{
			Users:       int(entry.stats.Members.Load()),
			GameStarted: entry.stats.Started.Load(),
		}
	}

	return summaries
}

// BroadcastRoomList 把最新的房间列表推送给所有在线连接
func (rs *RoomService) BroadcastRoomList() {
	rs.hub.Broadcast(game.WrapResponse(
		game.RESP_ACTIVE_ROOMS,
		rs.RoomSummaries(),
	))
}
