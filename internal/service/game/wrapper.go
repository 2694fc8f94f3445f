package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型（客户端意图 + 服务端内部事件）
const (
	REQ_SET_NAME             = "setName"
	REQ_CHECK_SESSION        = "checkSession"
	REQ_CREATE_ROOM          = "createRoom"
	REQ_JOIN_ROOM            = "joinRoom"
	REQ_JOIN_GAME            = "joinGame"
	REQ_LEAVE_ROOM           = "leaveRoom"
	REQ_REQUEST_ACTIVE_ROOMS = "requestActiveRooms"
	REQ_REQUEST_GAME_STATE   = "requestGameState"
	REQ_REQUEST_PLAYER_NAMES = "requestPlayerNames"
	REQ_TOGGLE_READY         = "toggleReady"
	REQ_ADD_LETTER           = "addLetter"
	REQ_CHALLENGE_RESPONSE   = "challengeResponse"
	REQ_SURRENDER            = "surrender"

	// 以下为服务端内部请求，不会出现在客户端协议中
	REQ_EXIT_GAME    = "exitGame"
	REQ_NAME_UPDATED = "nameUpdated"
	REQ_TIMEOUT      = "timeout"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`

	// 网关在边界解码后注入的本地数据（携带连接 ID 和响应通道）
	NativeData any `json:"-"`
}

func unwrapInto[T any](wrapper RequestWrapper, reqTypes ...string) *T {
	matched := false
	for _, rt := range reqTypes {
		if wrapper.ReqType == rt {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	if req, ok := wrapper.NativeData.(*T); ok {
		return req
	}

	var req T
	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Error(
			"解析请求数据失败",
			zap.String("request_type", wrapper.ReqType),
			zap.Error(err),
		)
		return nil
	}

	return &req
}

func TryUnwrapSetNameRequest(wrapper RequestWrapper) *SetNameRequest {
	return unwrapInto[SetNameRequest](wrapper, REQ_SET_NAME)
}

func TryUnwrapCheckSessionRequest(wrapper RequestWrapper) *CheckSessionRequest {
	return unwrapInto[CheckSessionRequest](wrapper, REQ_CHECK_SESSION)
}

func TryUnwrapCreateRoomRequest(wrapper RequestWrapper) *CreateRoomRequest {
	return unwrapInto[CreateRoomRequest](wrapper, REQ_CREATE_ROOM)
}

func TryUnwrapJoinRoomRequest(wrapper RequestWrapper) *JoinRoomRequest {
	// joinRoom 和 joinGame 是等价的幂等别名
	return unwrapInto[JoinRoomRequest](wrapper, REQ_JOIN_ROOM, REQ_JOIN_GAME)
}

func TryUnwrapLeaveRoomRequest(wrapper RequestWrapper) *LeaveRoomRequest {
	return unwrapInto[LeaveRoomRequest](wrapper, REQ_LEAVE_ROOM)
}

func TryUnwrapGameStateRequest(wrapper RequestWrapper) *GameStateRequest {
	return unwrapInto[GameStateRequest](wrapper, REQ_REQUEST_GAME_STATE)
}

func TryUnwrapPlayerNamesRequest(wrapper RequestWrapper) *PlayerNamesRequest {
	return unwrapInto[PlayerNamesRequest](wrapper, REQ_REQUEST_PLAYER_NAMES)
}

func TryUnwrapToggleReadyRequest(wrapper RequestWrapper) *ToggleReadyRequest {
	return unwrapInto[ToggleReadyRequest](wrapper, REQ_TOGGLE_READY)
}

func TryUnwrapAddLetterRequest(wrapper RequestWrapper) *AddLetterRequest {
	return unwrapInto[AddLetterRequest](wrapper, REQ_ADD_LETTER)
}

func TryUnwrapChallengeResponseRequest(wrapper RequestWrapper) *ChallengeResponseRequest {
	return unwrapInto[ChallengeResponseRequest](wrapper, REQ_CHALLENGE_RESPONSE)
}

func TryUnwrapSurrenderRequest(wrapper RequestWrapper) *SurrenderRequest {
	return unwrapInto[SurrenderRequest](wrapper, REQ_SURRENDER)
}

func TryUnwrapExitGameRequest(wrapper RequestWrapper) *ExitGameRequest {
	return unwrapInto[ExitGameRequest](wrapper, REQ_EXIT_GAME)
}

func TryUnwrapNameUpdatedRequest(wrapper RequestWrapper) *NameUpdatedRequest {
	return unwrapInto[NameUpdatedRequest](wrapper, REQ_NAME_UPDATED)
}

func TryUnwrapTimeoutRequest(wrapper RequestWrapper) *TimeoutRequest {
	return unwrapInto[TimeoutRequest](wrapper, REQ_TIMEOUT)
}

// 响应类型
const (
	RESP_ERROR = "error"

	RESP_ACTIVE_ROOMS        = "activeRooms"
	RESP_ROOM_CREATED        = "roomCreated"
	RESP_SESSION_RESTORED    = "sessionRestored"
	RESP_PLAYER_UPDATE       = "playerUpdate"
	RESP_READY_STATUS        = "readyStatus"
	RESP_GAME_STARTING       = "gameStarting"
	RESP_UPDATE              = "update"
	RESP_WORD_CHALLENGE      = "wordChallenge"
	RESP_CHALLENGE_RESULT    = "challengeResult"
	RESP_SURRENDER_CONFIRMED = "surrenderConfirmed"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data,omitempty"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
