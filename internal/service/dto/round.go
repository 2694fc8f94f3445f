package dto

import "time"

// 回合结束的原因
const (
	REASON_SURRENDER      = "Surrender"
	REASON_TIMED_OUT      = "TimedOut"
	REASON_INVALID_LETTER = "InvalidLetter"
	REASON_INVALID_WORD   = "InvalidWord"
	REASON_EXTENDED_AWAY  = "ExtendedAway"
)

// RoundOutcome 是每个回合结算后追加到房间历史里的不可变记录
type RoundOutcome struct {
	Word   string    `json:"word"`
	Winner string    `json:"winner,omitempty"`
	Loser  string    `json:"loser"`
	At     time.Time `json:"timestamp"`
	Reason string    `json:"reason"`
}
