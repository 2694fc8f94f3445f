package game

import (
	"time"

	"go.uber.org/zap"
)

// GameMachine 是房间状态机，每个房间一个协程串行消费所有事件
// 房间内状态只被这一个协程读写，不需要额外的锁
type GameMachine struct {
	ctx     *GameContext
	handler StageHandler
	// 这是所有的用户的请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，由注册表的清扫协程关闭
	doneCh chan struct{}

	createdAt time.Time
}

func NewGameMachine(
	roomName string,
	stats *RoomStats,
	lexicon Lexicon,
	names NameResolver,
	onRoomsChanged func(),
	doneCh chan struct{},
) *GameMachine {
	ctx := &GameContext{
		RoomName:       roomName,
		Stage:          STAGE_LOBBY,
		Ready:          make(map[string]bool),
		Lexicon:        lexicon,
		Names:          names,
		Stats:          stats,
		OnRoomsChanged: onRoomsChanged,
		TmoCh:          make(chan RequestWrapper, 64),
	}

	reqCh := make(chan RequestWrapper, 64)

	gm := &GameMachine{
		ctx:       ctx,
		handler:   NewLobbyStageHandler(),
		reqCh:     reqCh,
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	// 设置 onSwitch 回调
	onSwitch := func(nextStage string) {
		gm.ctx.Stage = nextStage
	}

	gm.handler.SetOnSwitch(onSwitch)

	return gm
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) Start() {
	// 执行初始 handler 的 OnEnter
	gm.handler.OnEnter(gm.ctx)

	// 进入事件循环
	for {
		// 从请求通道或超时通道接收事件
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
			zap.L().Debug(
				"接收到客户端请求",
				zap.String("room", gm.ctx.RoomName),
				zap.String("request_type", req.ReqType),
			)
		case req = <-gm.ctx.TmoCh:
			zap.L().Debug(
				"接收到超时事件",
				zap.String("room", gm.ctx.RoomName),
			)
		case <-gm.doneCh:
			gm.ctx.ClearTimeout()
			zap.L().Info(
				"收到退出信号，结束房间状态机",
				zap.String("room", gm.ctx.RoomName),
			)
			return
		}

		// 处理请求
		err := gm.handler.OnHandle(gm.ctx, req)
		if err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.Error(err),
				zap.String("stage", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
			)
		}

		// 检查阶段是否发生变化
		if gm.ctx.Stage != gm.handler.Stage() {
			// 阶段发生变化，执行切换
			gm.switchStage()

			// 执行新阶段的 OnEnter
			gm.handler.OnEnter(gm.ctx)
		}
	}
}

func (gm *GameMachine) switchStage() {
	// 执行当前 handler 的 OnExit
	gm.handler.OnExit(gm.ctx)

	// 根据新阶段创建对应的 handler
	var newHandler StageHandler

	switch gm.ctx.Stage {
	case STAGE_LOBBY:
		newHandler = NewLobbyStageHandler()
	case STAGE_ROUND:
		newHandler = NewRoundStageHandler()
	case STAGE_CHALLENGE:
		newHandler = NewChallengeStageHandler()
	default:
		zap.L().Error(
			"未知的游戏阶段",
			zap.String("stage", gm.ctx.Stage),
		)
		return
	}

	// 设置 onSwitch 回调
	onSwitch := func(nextStage string) {
		gm.ctx.Stage = nextStage
	}

	newHandler.SetOnSwitch(onSwitch)

	// 更新当前 handler
	gm.handler = newHandler
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}
