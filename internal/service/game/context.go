package game

import (
	"math/rand/v2"
	"time"

	"ghost-word-be/internal/service/dto"

	"go.uber.org/zap"
)

// Lexicon 是词典预言机的抽象，实现见 internal/service/lexicon
type Lexicon interface {
	IsCompleteWord(sequence string) bool
	CanExtend(sequence string) bool
}

// NameResolver 解析连接的展示名，实现见 IdentityService
type NameResolver interface {
	DisplayName(connID string) string
	KnownName(connID string) (string, bool)
}

type GameContext struct {
	RoomName string
	Stage    string

	// 插入顺序即轮转顺序，移除成员不重排其余成员
	Members []*Member
	Ready   map[string]bool
	Started bool
	// 刚刚完成开局倒计时，进入回合阶段时需要补发一次就绪状态
	JustStarted bool

	CurrentWord  string
	Validity     dto.ValidityState
	TurnHolderID string

	Challenge *Challenge
	// 链式挑战延迟开启期间暂存的下一个挑战
	NextChallenge *Challenge

	History []dto.RoundOutcome

	Lexicon Lexicon
	Names   NameResolver
	Stats   *RoomStats

	// 全局房间列表广播的回调，由 RoomService 注入
	OnRoomsChanged func()

	TmoCh chan RequestWrapper
	Timer *time.Timer
}

func (gc *GameContext) FindMember(connID string) *Member {
	for _, m := range gc.Members {
		if m.ID == connID {
			return m
		}
	}

	return nil
}

// RotationNext 返回 connID 在轮转顺序中的下一位成员（回绕）
// connID 不在成员列表时退回首位成员
func (gc *GameContext) RotationNext(connID string) *Member {
	if len(gc.Members) == 0 {
		return nil
	}

	for i, m := range gc.Members {
		if m.ID == connID {
			return gc.Members[(i+1)%len(gc.Members)]
		}
	}

	return gc.Members[0]
}

func (gc *GameContext) RandomMember() *Member {
	if len(gc.Members) == 0 {
		return nil
	}

	return gc.Members[rand.IntN(len(gc.Members))]
}

// RosterNames 返回所有成员的展示名（id -> name）
func (gc *GameContext) RosterNames() map[string]string {
	names := make(map[string]string, len(gc.Members))
	for _, m := range gc.Members {
		names[m.ID] = gc.Names.DisplayName(m.ID)
	}

	return names
}

func (gc *GameContext) BroadcastResp(resp ResponseWrapper) {
	for _, m := range gc.Members {
		select {
		case m.RespCh <- resp:
			zap.L().Debug(
				"成功发送广播响应",
				zap.String("room", gc.RoomName),
				zap.String("player_id", m.ID),
				zap.String("response_type", resp.RespType),
			)
		default:
			zap.L().Warn(
				"发送广播响应失败：玩家响应通道已满",
				zap.String("room", gc.RoomName),
				zap.String("player_id", m.ID),
			)
		}
	}
}

func (gc *GameContext) UnicastResp(connID string, resp ResponseWrapper) {
	member := gc.FindMember(connID)
	if member == nil {
		zap.L().Warn(
			"无法找到玩家进行单播响应",
			zap.String("room", gc.RoomName),
			zap.String("player_id", connID),
		)
		return
	}

	gc.sendTo(member.RespCh, resp)
}

// 直接向某个响应通道发送，用于尚未成为成员的连接（如状态查询）
func (gc *GameContext) sendTo(respCh chan ResponseWrapper, resp ResponseWrapper) {
	select {
	case respCh <- resp:
		zap.L().Debug(
			"发送单播响应成功",
			zap.String("room", gc.RoomName),
			zap.String("response_type", resp.RespType),
		)
	default:
		zap.L().Warn(
			"发送单播响应失败：响应通道已满",
			zap.String("room", gc.RoomName),
		)
	}
}

// SetTimeout 安排一个定时器事件，新的定时会取消旧的
// 每个房间同一时刻只有一个待决定时器
func (gc *GameContext) SetTimeout(kind string, d time.Duration) {
	gc.ClearTimeout()

	tmoCh := gc.TmoCh

	gc.Timer = time.AfterFunc(d, func() {
		req := RequestWrapper{
			ReqType:    REQ_TIMEOUT,
			NativeData: &TimeoutRequest{Kind: kind},
		}

		select {
		case tmoCh <- req:
		default:
			zap.L().Warn("超时事件丢弃：超时通道已满")
		}
	})
}

func (gc *GameContext) ClearTimeout() {
	if gc.Timer != nil {
		gc.Timer.Stop()
		gc.Timer = nil
	}
}

// MarkEmpty 在最后一名成员离开时调用，只记录时间戳
// 真正的删除由注册表的清扫协程在宽限期后执行
func (gc *GameContext) MarkEmpty() {
	gc.Stats.EmptySinceMs.Store(time.Now().UnixMilli())
}

func (gc *GameContext) MarkOccupied() {
	if gc.Stats.EmptySinceMs.Swap(0) != 0 {
		zap.L().Info(
			"房间重新有人，取消清理标记",
			zap.String("room", gc.RoomName),
		)
	}
}

func (gc *GameContext) SyncStats() {
	gc.Stats.Members.Store(int32(len(gc.Members)))
	gc.Stats.Started.Store(gc.Started)
}

func (gc *GameContext) notifyRoomsChanged() {
	if gc.OnRoomsChanged != nil {
		gc.OnRoomsChanged()
	}
}
