package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"ghost-word-be/internal/service/dto"

	"go.uber.org/zap"
)

type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// 校验客户端提交的字母：必须恰好是一个字母字符
func validLetter(s string) bool {
	r := []rune(s)

	return len(r) == 1 && unicode.IsLetter(r[0])
}

// 大厅阶段：玩家加入、切换准备状态，全员就绪后一次性进入回合阶段
type lobbyStageHandler struct {
	onSwitch func(string)
}

func NewLobbyStageHandler() *lobbyStageHandler {
	return &lobbyStageHandler{}
}

func (lsh *lobbyStageHandler) Stage() string {
	return STAGE_LOBBY
}

func (lsh *lobbyStageHandler) OnEnter(ctx *GameContext) {
	// 房间创建时和被清空时都会进入大厅阶段，重置回合状态
	// 成员列表和历史记录保留
	ctx.Started = false
	ctx.JustStarted = false
	ctx.CurrentWord = ""
	ctx.Validity = dto.ValidityState{}
	ctx.Ready = make(map[string]bool)
	ctx.Challenge = nil
	ctx.NextChallenge = nil

	if len(ctx.Members) == 0 {
		ctx.TurnHolderID = ""
	}

	for _, m := range ctx.Members {
		ctx.Ready[m.ID] = false
	}

	ctx.SyncStats()
}

func (lsh *lobbyStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, lsh.onSwitch); handled {
		return err
	}

	if req := TryUnwrapToggleReadyRequest(req); req != nil {
		// 游戏开始后不再允许切换准备状态
		if ctx.Started {
			return nil
		}

		if ctx.FindMember(req.ConnID) == nil {
			return errors.New("无法切换准备状态：不是房间成员")
		}

		ctx.Ready[req.ConnID] = !ctx.Ready[req.ConnID]

		ctx.BroadcastResp(WrapResponse(
			RESP_READY_STATUS,
			ReadyStatusResponse{
				ReadyPlayers: ctx.Ready,
				GameStarted:  ctx.Started,
			},
		))

		// 就绪法定条件：全员准备且至少 2 人
		if len(ctx.Members) < 2 {
			return nil
		}

		for _, m := range ctx.Members {
			if !ctx.Ready[m.ID] {
				return nil
			}
		}

		ctx.Started = true
		ctx.SyncStats()

		first := ctx.RandomMember()
		ctx.TurnHolderID = first.ID

		zap.L().Info(
			"全员就绪，游戏开始",
			zap.String("room", ctx.RoomName),
			zap.Int("players", len(ctx.Members)),
			zap.String("starting_player", first.ID),
		)

		ctx.BroadcastResp(WrapResponse(
			RESP_GAME_STARTING,
			GameStartingResponse{
				Message:        "所有玩家已准备，游戏即将开始……",
				StartingPlayer: first.ID,
				PlayerNames:    ctx.RosterNames(),
			},
		))

		ctx.notifyRoomsChanged()

		// 留给客户端渲染开场提示的时间，到点后才真正进入回合
		ctx.SetTimeout(TIMEOUT_GAME_START, GAME_START_DELAY)

		return nil
	}

	if req := TryUnwrapTimeoutRequest(req); req != nil {
		if req.Kind == TIMEOUT_GAME_START {
			// 倒计时期间房间可能已被清空重置，过期的开局事件直接丢弃
			if !ctx.Started {
				return nil
			}

			ctx.JustStarted = true
			lsh.onSwitch(STAGE_ROUND)
		}
		return nil
	}

	if req := TryUnwrapAddLetterRequest(req); req != nil {
		ctx.UnicastResp(req.ConnID, WrapErrResponse("游戏尚未开始"))
		return errors.New("大厅阶段不接受字母提交")
	}

	return errors.New("无法处理请求：当前阶段不支持该请求类型")
}

func (lsh *lobbyStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (lsh *lobbyStageHandler) SetOnSwitch(onSwitch func(string)) {
	lsh.onSwitch = onSwitch
}

// 回合阶段：持有回合的玩家追加一个字母
// 拼出完整单词则转入挑战阶段，否则回合顺延给下一位
type roundStageHandler struct {
	onSwitch func(string)
}

func NewRoundStageHandler() *roundStageHandler {
	return &roundStageHandler{}
}

func (rsh *roundStageHandler) Stage() string {
	return STAGE_ROUND
}

func (rsh *roundStageHandler) OnEnter(ctx *GameContext) {
	ctx.Validity = dto.ValidityState{}

	ctx.BroadcastResp(WrapResponse(
		RESP_UPDATE,
		UpdateResponse{
			Word:          ctx.CurrentWord,
			NextPlayer:    ctx.TurnHolderID,
			ValidityState: ctx.Validity,
		},
	))

	if ctx.JustStarted {
		ctx.JustStarted = false

		ctx.BroadcastResp(WrapResponse(
			RESP_READY_STATUS,
			ReadyStatusResponse{
				ReadyPlayers: ctx.Ready,
				GameStarted:  true,
			},
		))
	}
}

func (rsh *roundStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, rsh.onSwitch); handled {
		return err
	}

	if req := TryUnwrapAddLetterRequest(req); req != nil {
		if req.ConnID != ctx.TurnHolderID {
			return errors.New("还没轮到该玩家提交字母")
		}

		if !validLetter(req.Letter) {
			ctx.UnicastResp(req.ConnID, WrapErrResponse("字母无效：必须提交单个字母"))
			return errors.New("提交的字母不合法")
		}

		word := ctx.CurrentWord + strings.ToLower(req.Letter)
		ctx.CurrentWord = word

		if utf8.RuneCountInString(word) >= 3 {
			if ctx.Lexicon.IsCompleteWord(word) {
				// 拼出了完整单词，不做正常轮转，开启挑战
				respondent := ctx.RotationNext(req.ConnID)
				ctx.Validity = dto.ValidityState{IsChecked: true, IsValid: true}
				ctx.Challenge = &Challenge{
					Word:       word,
					Initiator:  req.ConnID,
					Respondent: respondent.ID,
					StartedAt:  time.Now(),
					TimeLimit:  CHALLENGE_TIME_LIMIT,
				}

				zap.L().Info(
					"拼出完整单词，开启挑战",
					zap.String("room", ctx.RoomName),
					zap.String("word", word),
					zap.String("initiator", req.ConnID),
					zap.String("respondent", respondent.ID),
				)

				ctx.BroadcastResp(WrapResponse(
					RESP_WORD_CHALLENGE,
					WordChallengeResponse{
						Word:              word,
						ChallengingPlayer: req.ConnID,
						ChallengedPlayer:  respondent.ID,
					},
				))

				rsh.onSwitch(STAGE_CHALLENGE)

				return nil
			}

			ctx.Validity = dto.ValidityState{IsChecked: true, IsValid: false}
		} else {
			ctx.Validity = dto.ValidityState{}
		}

		next := ctx.RotationNext(req.ConnID)
		ctx.TurnHolderID = next.ID

		ctx.BroadcastResp(WrapResponse(
			RESP_UPDATE,
			UpdateResponse{
				Word:          word,
				NextPlayer:    next.ID,
				ValidityState: ctx.Validity,
				CurrentPlayer: req.ConnID,
			},
		))

		return nil
	}

	if req := TryUnwrapSurrenderRequest(req); req != nil {
		if req.ConnID != ctx.TurnHolderID {
			return errors.New("只有持有回合的玩家可以认输")
		}

		word := ctx.CurrentWord

		ctx.History = append(ctx.History, dto.RoundOutcome{
			Word:   word,
			Loser:  req.ConnID,
			At:     time.Now(),
			Reason: dto.REASON_SURRENDER,
		})

		next := ctx.RotationNext(req.ConnID)
		ctx.CurrentWord = ""
		ctx.Validity = dto.ValidityState{}
		ctx.TurnHolderID = next.ID

		zap.L().Info(
			"玩家认输，回合重置",
			zap.String("room", ctx.RoomName),
			zap.String("player", req.ConnID),
			zap.String("word", word),
		)

		ctx.BroadcastResp(WrapResponse(
			RESP_SURRENDER_CONFIRMED,
			SurrenderConfirmedResponse{
				Word:               word,
				SurrenderingPlayer: req.ConnID,
				NextPlayer:         next.ID,
			},
		))

		ctx.BroadcastResp(WrapResponse(
			RESP_UPDATE,
			UpdateResponse{
				Word:          "",
				NextPlayer:    next.ID,
				ValidityState: ctx.Validity,
				CurrentPlayer: req.ConnID,
			},
		))

		return nil
	}

	if req := TryUnwrapToggleReadyRequest(req); req != nil {
		// 游戏已开始，静默拒绝
		_ = req
		return nil
	}

	if req := TryUnwrapTimeoutRequest(req); req != nil {
		zap.L().Debug(
			"忽略过期的定时器事件",
			zap.String("room", ctx.RoomName),
			zap.String("kind", req.Kind),
		)
		return nil
	}

	return errors.New("回合阶段不支持该请求类型")
}

func (rsh *roundStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (rsh *roundStageHandler) SetOnSwitch(onSwitch func(string)) {
	rsh.onSwitch = onSwitch
}

// 挑战阶段：被挑战者必须在限时内延伸单词、给出更长的完整单词或认负
// 成功的单字母延伸会交换攻守，链式继续，直到一方失败
type challengeStageHandler struct {
	onSwitch func(string)
}

func NewChallengeStageHandler() *challengeStageHandler {
	return &challengeStageHandler{}
}

func (csh *challengeStageHandler) Stage() string {
	return STAGE_CHALLENGE
}

func (csh *challengeStageHandler) OnEnter(ctx *GameContext) {
	// 服务端持有权威计时器，不信任客户端的倒计时
	if ctx.Challenge != nil {
		ctx.SetTimeout(TIMEOUT_CHALLENGE_EXPIRE, ctx.Challenge.TimeLimit)
	}
}

func (csh *challengeStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if handled, err := handleCommon(ctx, req, csh.onSwitch); handled {
		return err
	}

	if req := TryUnwrapChallengeResponseRequest(req); req != nil {
		ch := ctx.Challenge
		if ch == nil {
			return errors.New("当前没有进行中的挑战")
		}

		if req.ConnID != ch.Respondent {
			return errors.New("不是被挑战的玩家，忽略应战")
		}

		switch {
		case req.Success && req.Letter != "":
			if !validLetter(req.Letter) {
				ctx.UnicastResp(req.ConnID, WrapErrResponse("字母无效：必须提交单个字母"))
				return errors.New("应战提交的字母不合法")
			}

			newWord := ch.Word + strings.ToLower(req.Letter)

			if !ctx.Lexicon.CanExtend(newWord) {
				csh.failChallenge(ctx, req.ConnID, dto.REASON_INVALID_LETTER, req.Letter)
				return nil
			}

			// 延伸成功：累积单词保留，攻守互换，链式挑战继续
			ctx.CurrentWord = newWord

			ctx.BroadcastResp(WrapResponse(
				RESP_CHALLENGE_RESULT,
				ChallengeResultResponse{
					Success: true,
					Player:  req.ConnID,
					Word:    newWord,
					Letter:  req.Letter,
				},
			))

			ctx.NextChallenge = &Challenge{
				Word:       newWord,
				Initiator:  req.ConnID,
				Respondent: ch.Initiator,
				TimeLimit:  CHALLENGE_TIME_LIMIT,
			}
			ctx.Challenge = nil

			ctx.SetTimeout(TIMEOUT_NEXT_CHALLENGE, CHAIN_CONTINUE_DELAY)

			zap.L().Info(
				"挑战延伸成功，攻守互换",
				zap.String("room", ctx.RoomName),
				zap.String("word", newWord),
				zap.String("new_initiator", req.ConnID),
			)

			return nil

		case req.Success && req.Word != "":
			word := strings.ToLower(strings.TrimSpace(req.Word))

			valid := strings.HasPrefix(word, ch.Word) &&
				len(word) > len(ch.Word) &&
				ctx.Lexicon.IsCompleteWord(word)

			if !valid {
				csh.failChallenge(ctx, req.ConnID, dto.REASON_INVALID_WORD, "")
				return nil
			}

			// 给出了更长的完整单词：应战者直接获胜
			// 拼出原词的发起者记为本回合败者
			ctx.History = append(ctx.History, dto.RoundOutcome{
				Word:   ch.Word,
				Winner: req.ConnID,
				Loser:  ch.Initiator,
				At:     time.Now(),
				Reason: dto.REASON_EXTENDED_AWAY,
			})

			ctx.BroadcastResp(WrapResponse(
				RESP_CHALLENGE_RESULT,
				ChallengeResultResponse{
					Success: true,
					Player:  req.ConnID,
					Word:    word,
					Winner:  req.ConnID,
				},
			))

			ctx.CurrentWord = ""
			ctx.Validity = dto.ValidityState{}
			ctx.TurnHolderID = req.ConnID
			ctx.Challenge = nil

			ctx.SetTimeout(TIMEOUT_ROUND_RESET, ROUND_RESET_DELAY)

			return nil

		case req.TimeExpired:
			csh.failChallenge(ctx, req.ConnID, dto.REASON_TIMED_OUT, "")
			return nil

		default:
			// 主动放弃应战
			csh.failChallenge(ctx, req.ConnID, dto.REASON_SURRENDER, "")
			return nil
		}
	}

	if req := TryUnwrapTimeoutRequest(req); req != nil {
		switch req.Kind {
		case TIMEOUT_CHALLENGE_EXPIRE:
			if ctx.Challenge != nil {
				zap.L().Info(
					"挑战限时已到，服务端判定超时",
					zap.String("room", ctx.RoomName),
					zap.String("respondent", ctx.Challenge.Respondent),
				)
				csh.failChallenge(ctx, ctx.Challenge.Respondent, dto.REASON_TIMED_OUT, "")
			}

		case TIMEOUT_NEXT_CHALLENGE:
			csh.openChainedChallenge(ctx)

		case TIMEOUT_ROUND_RESET:
			csh.onSwitch(STAGE_ROUND)
		}

		return nil
	}

	if req := TryUnwrapAddLetterRequest(req); req != nil {
		ctx.UnicastResp(req.ConnID, WrapErrResponse("挑战进行中，暂不接受字母提交"))
		return errors.New("挑战阶段不接受字母提交")
	}

	if req := TryUnwrapSurrenderRequest(req); req != nil {
		_ = req
		return errors.New("挑战进行中不接受回合认输")
	}

	if req := TryUnwrapToggleReadyRequest(req); req != nil {
		_ = req
		return nil
	}

	return errors.New("挑战阶段不支持该请求类型")
}

// 应战失败的统一结算：应战者判负，发起者获胜，回合延迟重置
func (csh *challengeStageHandler) failChallenge(
	ctx *GameContext,
	loserID string,
	reason string,
	attemptedLetter string,
) {
	ch := ctx.Challenge
	winner := ch.Initiator

	ctx.History = append(ctx.History, dto.RoundOutcome{
		Word:   ch.Word,
		Winner: winner,
		Loser:  loserID,
		At:     time.Now(),
		Reason: reason,
	})

	loserName := ctx.Names.DisplayName(loserID)

	var failureReason string
	switch reason {
	case dto.REASON_TIMED_OUT:
		failureReason = fmt.Sprintf("%s 超时未能应战", loserName)
	case dto.REASON_INVALID_LETTER:
		failureReason = fmt.Sprintf("%s 尝试了 %q，但无法延伸出单词", loserName, attemptedLetter)
	default:
		failureReason = fmt.Sprintf("%s 无法延伸这个单词", loserName)
	}

	ctx.BroadcastResp(WrapResponse(
		RESP_CHALLENGE_RESULT,
		ChallengeResultResponse{
			Success:         false,
			Player:          loserID,
			Word:            ch.Word,
			Winner:          winner,
			FailureReason:   failureReason,
			TimeExpired:     reason == dto.REASON_TIMED_OUT,
			AttemptedLetter: attemptedLetter,
		},
	))

	zap.L().Info(
		"挑战失败，回合结算",
		zap.String("room", ctx.RoomName),
		zap.String("word", ch.Word),
		zap.String("loser", loserID),
		zap.String("winner", winner),
		zap.String("reason", reason),
	)

	ctx.CurrentWord = ""
	ctx.Validity = dto.ValidityState{}
	ctx.Challenge = nil

	// 获胜者可能已经离开房间，此时把回合交给轮转顺序上的下一位
	if ctx.FindMember(winner) != nil {
		ctx.TurnHolderID = winner
	} else if next := ctx.RotationNext(loserID); next != nil {
		ctx.TurnHolderID = next.ID
	}

	ctx.SetTimeout(TIMEOUT_ROUND_RESET, ROUND_RESET_DELAY)
}

// 链式挑战的延迟开启，开启前重新校验应战者是否仍在房间
func (csh *challengeStageHandler) openChainedChallenge(ctx *GameContext) {
	nc := ctx.NextChallenge
	ctx.NextChallenge = nil

	if nc == nil {
		return
	}

	if ctx.FindMember(nc.Respondent) == nil {
		next := ctx.RotationNext(nc.Initiator)

		if next == nil || next.ID == nc.Initiator {
			// 只剩发起者一人，没有可应战的对象，直接重置回合
			zap.L().Info(
				"应战者已离开且无人可接替，回合重置",
				zap.String("room", ctx.RoomName),
			)

			ctx.CurrentWord = ""
			ctx.Validity = dto.ValidityState{}

			if ctx.FindMember(nc.Initiator) != nil {
				ctx.TurnHolderID = nc.Initiator
			} else if len(ctx.Members) > 0 {
				ctx.TurnHolderID = ctx.Members[0].ID
			}

			csh.onSwitch(STAGE_ROUND)

			return
		}

		zap.L().Info(
			"应战者已离开，改由轮转顺序的下一位应战",
			zap.String("room", ctx.RoomName),
			zap.String("respondent", next.ID),
		)

		nc.Respondent = next.ID
	}

	nc.StartedAt = time.Now()
	ctx.Challenge = nc

	ctx.BroadcastResp(WrapResponse(
		RESP_WORD_CHALLENGE,
		WordChallengeResponse{
			Word:              nc.Word,
			ChallengingPlayer: nc.Initiator,
			ChallengedPlayer:  nc.Respondent,
		},
	))

	ctx.SetTimeout(TIMEOUT_CHALLENGE_EXPIRE, nc.TimeLimit)
}

func (csh *challengeStageHandler) OnExit(ctx *GameContext) {
	ctx.ClearTimeout()
}

func (csh *challengeStageHandler) SetOnSwitch(onSwitch func(string)) {
	csh.onSwitch = onSwitch
}

// 所有阶段共用的请求处理：加入、离开、断线、状态查询、名字广播
func handleCommon(ctx *GameContext, req RequestWrapper, switchTo func(string)) (bool, error) {
	if req := TryUnwrapJoinRoomRequest(req); req != nil {
		onPlayerJoin(ctx, req)
		return true, nil
	}

	if req := TryUnwrapLeaveRoomRequest(req); req != nil {
		onPlayerLeave(ctx, req.ConnID, switchTo)
		return true, nil
	}

	if req := TryUnwrapExitGameRequest(req); req != nil {
		// 断线在房间层面等同于离开，身份清理由网关负责
		onPlayerLeave(ctx, req.ConnID, switchTo)
		return true, nil
	}

	if req := TryUnwrapGameStateRequest(req); req != nil {
		onGameState(ctx, req)
		return true, nil
	}

	if req := TryUnwrapPlayerNamesRequest(req); req != nil {
		onPlayerNames(ctx, req)
		return true, nil
	}

	if req := TryUnwrapNameUpdatedRequest(req); req != nil {
		ctx.BroadcastResp(WrapResponse(
			RESP_PLAYER_UPDATE,
			PlayerUpdateResponse{
				PlayerID: req.ConnID,
				Name:     req.Name,
			},
		))
		return true, nil
	}

	return false, nil
}

func onPlayerJoin(ctx *GameContext, req *JoinRoomRequest) {
	if existing := ctx.FindMember(req.ConnID); existing != nil {
		zap.L().Debug(
			"玩家已在房间中，重发当前状态",
			zap.String("room", ctx.RoomName),
			zap.String("player_id", req.ConnID),
		)

		sendSnapshot(ctx, req.RespCh)
		sendRoster(ctx, req)
		broadcastReadyStatus(ctx)

		return
	}

	ctx.MarkOccupied()

	member := &Member{
		ID:     req.ConnID,
		RespCh: req.RespCh,
	}

	ctx.Members = append(ctx.Members, member)
	ctx.Ready[req.ConnID] = false
	ctx.SyncStats()

	zap.L().Info(
		"玩家加入房间",
		zap.String("room", ctx.RoomName),
		zap.String("player_id", req.ConnID),
		zap.Int("members", len(ctx.Members)),
	)

	if ctx.TurnHolderID == "" {
		// 房间首次有了可持有回合的成员，随机指定并广播初始状态
		first := ctx.RandomMember()
		ctx.TurnHolderID = first.ID

		ctx.BroadcastResp(WrapResponse(
			RESP_UPDATE,
			UpdateResponse{
				Word:          ctx.CurrentWord,
				NextPlayer:    first.ID,
				ValidityState: ctx.Validity,
			},
		))
	} else {
		sendSnapshot(ctx, req.RespCh)
	}

	sendRoster(ctx, req)
	broadcastReadyStatus(ctx)
	ctx.notifyRoomsChanged()
}

// 把房间当前的完整状态单播给一个连接（含进行中的挑战）
func sendSnapshot(ctx *GameContext, respCh chan ResponseWrapper) {
	ctx.sendTo(respCh, WrapResponse(
		RESP_UPDATE,
		UpdateResponse{
			Word:              ctx.CurrentWord,
			NextPlayer:        ctx.TurnHolderID,
			ValidityState:     ctx.Validity,
			PreserveChallenge: true,
		},
	))

	if ctx.Challenge != nil {
		ctx.sendTo(respCh, WrapResponse(
			RESP_WORD_CHALLENGE,
			WordChallengeResponse{
				Word:              ctx.Challenge.Word,
				ChallengingPlayer: ctx.Challenge.Initiator,
				ChallengedPlayer:  ctx.Challenge.Respondent,
			},
		))
	}
}

// 双向同步名册：把已知成员名单播给加入者，把加入者的名字广播给房间
// 保证无论加入顺序如何，各方都能拿到完整的名字名册
func sendRoster(ctx *GameContext, req *JoinRoomRequest) {
	for _, m := range ctx.Members {
		if m.ID == req.ConnID {
			continue
		}

		if name, ok := ctx.Names.KnownName(m.ID); ok {
			ctx.sendTo(req.RespCh, WrapResponse(
				RESP_PLAYER_UPDATE,
				PlayerUpdateResponse{
					PlayerID: m.ID,
					Name:     name,
				},
			))
		}
	}

	if name, ok := ctx.Names.KnownName(req.ConnID); ok {
		ctx.BroadcastResp(WrapResponse(
			RESP_PLAYER_UPDATE,
			PlayerUpdateResponse{
				PlayerID: req.ConnID,
				Name:     name,
			},
		))
	}
}

func broadcastReadyStatus(ctx *GameContext) {
	ctx.BroadcastResp(WrapResponse(
		RESP_READY_STATUS,
		ReadyStatusResponse{
			ReadyPlayers: ctx.Ready,
			GameStarted:  ctx.Started,
		},
	))
}

func onPlayerLeave(ctx *GameContext, connID string, switchTo func(string)) {
	idx := -1
	for i, m := range ctx.Members {
		if m.ID == connID {
			idx = i
			break
		}
	}

	if idx == -1 {
		zap.L().Warn(
			"玩家不在房间中，无法离开",
			zap.String("room", ctx.RoomName),
			zap.String("player_id", connID),
		)
		return
	}

	ctx.Members = append(ctx.Members[:idx], ctx.Members[idx+1:]...)
	delete(ctx.Ready, connID)
	ctx.SyncStats()

	zap.L().Info(
		"玩家离开房间",
		zap.String("room", ctx.RoomName),
		zap.String("player_id", connID),
		zap.Int("members", len(ctx.Members)),
	)

	// 回合持有者的变更随成员变更一并完成，绝不等到下次提交时再推算
	if ctx.TurnHolderID == connID && len(ctx.Members) > 0 {
		next := ctx.Members[idx%len(ctx.Members)]
		ctx.TurnHolderID = next.ID

		ctx.BroadcastResp(WrapResponse(
			RESP_UPDATE,
			UpdateResponse{
				Word:              ctx.CurrentWord,
				NextPlayer:        next.ID,
				ValidityState:     ctx.Validity,
				PreserveChallenge: true,
			},
		))
	}

	if len(ctx.Members) == 0 {
		// 不立即删除：标记空置时间，宽限期内重新加入可保住房间
		ctx.MarkEmpty()

		zap.L().Info(
			"房间已空，标记等待清理",
			zap.String("room", ctx.RoomName),
		)

		if ctx.Stage != STAGE_LOBBY {
			switchTo(STAGE_LOBBY)
		} else {
			// 开局倒计时可能仍在挂起，一并取消
			ctx.ClearTimeout()

			ctx.Started = false
			ctx.CurrentWord = ""
			ctx.Validity = dto.ValidityState{}
			ctx.Ready = make(map[string]bool)
			ctx.Challenge = nil
			ctx.NextChallenge = nil
			ctx.TurnHolderID = ""
			ctx.SyncStats()
		}
	} else {
		broadcastReadyStatus(ctx)
	}

	ctx.notifyRoomsChanged()
}

func onGameState(ctx *GameContext, req *GameStateRequest) {
	sendSnapshot(ctx, req.RespCh)
}

func onPlayerNames(ctx *GameContext, req *PlayerNamesRequest) {
	for _, m := range ctx.Members {
		if name, ok := ctx.Names.KnownName(m.ID); ok {
			ctx.sendTo(req.RespCh, WrapResponse(
				RESP_PLAYER_UPDATE,
				PlayerUpdateResponse{
					PlayerID: m.ID,
					Name:     name,
				},
			))
		}
	}
}
