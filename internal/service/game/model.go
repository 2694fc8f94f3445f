package game

import (
	"sync/atomic"
	"time"
)

// 游戏分为 3 个阶段：
// 1. 大厅阶段（Lobby）：玩家加入房间、切换准备状态，等待全员就绪
// 2. 回合阶段（Round）：持有回合的玩家轮流追加字母
// 3. 挑战阶段（Challenge）：拼出完整单词后，下一位玩家限时应战
const (
	STAGE_LOBBY     = "Lobby"
	STAGE_ROUND     = "Round"
	STAGE_CHALLENGE = "Challenge"
)

// 协议里约定的固定延迟，客户端依赖这些节奏渲染动画
const (
	GAME_START_DELAY     = 3 * time.Second
	CHAIN_CONTINUE_DELAY = 1500 * time.Millisecond
	ROUND_RESET_DELAY    = 3 * time.Second
	CHALLENGE_TIME_LIMIT = 10 * time.Second
)

// 定时器事件的种类
const (
	TIMEOUT_GAME_START       = "GameStart"
	TIMEOUT_ROUND_RESET      = "RoundReset"
	TIMEOUT_NEXT_CHALLENGE   = "NextChallenge"
	TIMEOUT_CHALLENGE_EXPIRE = "ChallengeExpire"
)

// Member 是房间成员，Members 切片的插入顺序即轮转顺序
type Member struct {
	ID     string
	RespCh chan ResponseWrapper
}

// Challenge 在拼出完整单词后存在，同一房间最多一个
type Challenge struct {
	Word       string
	Initiator  string
	Respondent string
	StartedAt  time.Time
	TimeLimit  time.Duration
}

// RoomStats 是房间对外暴露的只读计数，供注册表和清扫协程
// 在不进入房间事件循环的情况下安全读取
type RoomStats struct {
	Members      atomic.Int32
	Started      atomic.Bool
	EmptySinceMs atomic.Int64 // unix 毫秒，0 表示房间有人
}
