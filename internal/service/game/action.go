package game

import "ghost-word-be/internal/service/dto"

// 客户端意图的载荷，每个事件一个封闭的类型
// ConnID 和 RespCh 由网关在边界注入，绝不接受客户端提供的值

type SetNameRequest struct {
	Name         string `json:"name"`
	SessionToken string `json:"sessionToken,omitempty"`
}

type CheckSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	Name string `json:"name"`

	ConnID string               `json:"-"`
	RespCh chan ResponseWrapper `json:"-"`
}

type LeaveRoomRequest struct {
	Name string `json:"name"`

	ConnID string `json:"-"`
}

type GameStateRequest struct {
	RoomID string `json:"roomId"`

	ConnID string               `json:"-"`
	RespCh chan ResponseWrapper `json:"-"`
}

type PlayerNamesRequest struct {
	RoomID string `json:"roomId"`

	ConnID string               `json:"-"`
	RespCh chan ResponseWrapper `json:"-"`
}

type ToggleReadyRequest struct {
	RoomID string `json:"roomId"`

	ConnID string `json:"-"`
}

type AddLetterRequest struct {
	RoomID string `json:"roomId"`
	Letter string `json:"letter"`

	ConnID string `json:"-"`
}

type ChallengeResponseRequest struct {
	RoomID      string `json:"roomId"`
	Success     bool   `json:"success"`
	Letter      string `json:"letter,omitempty"`
	Word        string `json:"word,omitempty"`
	TimeExpired bool   `json:"timeExpired,omitempty"`

	ConnID string `json:"-"`
}

type SurrenderRequest struct {
	RoomID string `json:"roomId"`

	ConnID string `json:"-"`
}

// 服务端内部请求

type ExitGameRequest struct {
	ConnID string `json:"-"`
}

type NameUpdatedRequest struct {
	ConnID string `json:"-"`
	Name   string `json:"-"`
}

type TimeoutRequest struct {
	Kind string `json:"-"`
}

// 服务端通知的载荷

type RoomCreatedResponse struct {
	RoomName string `json:"roomName"`
	Creator  string `json:"creator"`
}

type SessionRestoredResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name,omitempty"`
}

type PlayerUpdateResponse struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type ReadyStatusResponse struct {
	ReadyPlayers map[string]bool `json:"readyPlayers"`
	GameStarted  bool            `json:"gameStarted"`
}

type GameStartingResponse struct {
	Message        string            `json:"message"`
	StartingPlayer string            `json:"startingPlayer"`
	PlayerNames    map[string]string `json:"playerNames"`
}

type UpdateResponse struct {
	Word              string            `json:"word"`
	NextPlayer        string            `json:"nextPlayer"`
	ValidityState     dto.ValidityState `json:"validityState"`
	CurrentPlayer     string            `json:"currentPlayer,omitempty"`
	PreserveChallenge bool              `json:"preserveChallenge,omitempty"`
}

type WordChallengeResponse struct {
	Word              string `json:"word"`
	ChallengingPlayer string `json:"challengingPlayer"`
	ChallengedPlayer  string `json:"challengedPlayer"`
}

type ChallengeResultResponse struct {
	Success         bool   `json:"success"`
	Player          string `json:"player"`
	Word            string `json:"word,omitempty"`
	Letter          string `json:"letter,omitempty"`
	Winner          string `json:"winner,omitempty"`
	FailureReason   string `json:"failureReason,omitempty"`
	TimeExpired     bool   `json:"timeExpired,omitempty"`
	AttemptedLetter string `json:"attemptedLetter,omitempty"`
}

type SurrenderConfirmedResponse struct {
	Word               string `json:"word"`
	SurrenderingPlayer string `json:"surrenderingPlayer"`
	NextPlayer         string `json:"nextPlayer"`
}
