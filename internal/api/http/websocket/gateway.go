package websocket

import (
	"encoding/json"
	"strings"
	"time"

	"ghost-word-be/internal/service/game"
	"ghost-word-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// GameSession 是 WebSocket 会话的入口
// 一个连接对应一个会话，连接存续期间可以陆续创建、加入多个房间
func GameSession(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		connID := game.GenID()
		clientIP := ctx.RemoteAddr()

		respCh := make(chan game.ResponseWrapper, 64)

		appState.Hub.Register(connID, respCh)
		defer appState.Hub.Unregister(connID)

		zap.L().Info(
			"WebSocket连接建立",
			zap.String("client_ip", clientIP),
			zap.String("conn_id", connID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		// 写入协程
		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					zap.L().Info(
						"WebSocket写入协程退出",
						zap.String("client_ip", clientIP),
					)
					return

				case <-ticker.C:
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"发送心跳失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))

				case resp, ok := <-respCh:
					if !ok {
						return
					}

					if err := conn.WriteJSON(resp); err != nil {
						zap.L().Error(
							"发送消息失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					zap.L().Debug(
						"发送消息",
						zap.String("client_ip", clientIP),
						zap.String("response_type", resp.RespType),
					)
				}
			}
		}()

		// 连接建立后立即推送一次当前房间列表
		appState.Hub.Send(connID, game.WrapResponse(
			game.RESP_ACTIVE_ROOMS,
			appState.RoomSvc.RoomSummaries(),
		))

		// 单个连接的请求限流：每秒 1 个，允许 5 个的突发
		limiter := rate.NewLimiter(1, 5)

		sess := &session{
			appState: appState,
			connID:   connID,
			respCh:   respCh,
			joined:   make(map[string]chan game.RequestWrapper),
		}

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			// 解析消息
			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Error(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				reply(respCh, game.WrapErrResponse("无效的请求格式"))

				continue
			}

			if !limiter.Allow() {
				zap.L().Warn(
					"请求触发限流",
					zap.String("client_ip", clientIP),
					zap.String("conn_id", connID),
					zap.String("request_type", wrapper.ReqType),
				)

				reply(respCh, game.WrapErrResponse("请求过于频繁，请稍后再试"))

				continue
			}

			sess.dispatch(wrapper)
		}

		// 读循环退出，表示客户端断开连接
		// 通知所有已加入的房间清理该玩家
		zap.L().Info(
			"客户端连接断开，通知房间清理",
			zap.String("client_ip", clientIP),
			zap.String("conn_id", connID),
			zap.Int("joined_rooms", len(sess.joined)),
		)

		for roomName, reqCh := range sess.joined {
			exitWrapper := game.RequestWrapper{
				ReqType:    game.REQ_EXIT_GAME,
				NativeData: &game.ExitGameRequest{ConnID: connID},
			}

			select {
			case reqCh <- exitWrapper:
			default:
				zap.L().Warn(
					"发送退出请求失败：请求通道已满",
					zap.String("room", roomName),
					zap.String("conn_id", connID),
				)
			}
		}

		// 连接级的名字映射清理，会话令牌对应的名字保留
		appState.IdentitySvc.OnDisconnect(connID)
	}
}

// session 是一个连接在网关侧的状态
// 只被读取协程访问，不需要锁
type session struct {
	appState *state.AppState
	connID   string
	respCh   chan game.ResponseWrapper

	// 已加入的房间（房间名 -> 房间请求通道）
	joined map[string]chan game.RequestWrapper
}

// dispatch 把请求分发到全局服务或对应的房间状态机
// ConnID 和响应通道一律在此处注入，不信任客户端载荷里的身份字段
func (s *session) dispatch(wrapper game.RequestWrapper) {
	switch wrapper.ReqType {
	case game.REQ_SET_NAME:
		req := game.TryUnwrapSetNameRequest(wrapper)
		if req == nil {
			return
		}

		name, ok := s.appState.IdentitySvc.SetName(s.connID, req.Name, req.SessionToken)
		if !ok {
			return
		}

		// 把新名字广播到所有已加入的房间
		s.notifyRoomsNameUpdated(name)

	case game.REQ_CHECK_SESSION:
		req := game.TryUnwrapCheckSessionRequest(wrapper)
		if req == nil {
			return
		}

		name, ok := s.appState.IdentitySvc.ResolveSession(s.connID, req.SessionToken)

		reply(s.respCh, game.WrapResponse(
			game.RESP_SESSION_RESTORED,
			game.SessionRestoredResponse{
				Success: ok,
				Name:    name,
			},
		))

		if ok {
			s.notifyRoomsNameUpdated(name)
		}

	case game.REQ_CREATE_ROOM:
		req := game.TryUnwrapCreateRoomRequest(wrapper)
		if req == nil {
			return
		}

		// 注册表按裁剪后的名字登记，这里统一归一化
		// 保证回显和后续按名寻址用的是同一个键
		roomName := strings.TrimSpace(req.Name)

		reqCh, err := s.appState.RoomSvc.CreateRoom(roomName)
		if err != nil {
			reply(s.respCh, game.WrapErrResponse(err.Error()))
			return
		}

		reply(s.respCh, game.WrapResponse(
			game.RESP_ROOM_CREATED,
			game.RoomCreatedResponse{
				RoomName: roomName,
				Creator:  s.appState.IdentitySvc.DisplayName(s.connID),
			},
		))

		// 创建者自动加入自己的房间
		joinWrapper := game.RequestWrapper{
			ReqType: game.REQ_JOIN_ROOM,
			NativeData: &game.JoinRoomRequest{
				Name:   roomName,
				ConnID: s.connID,
				RespCh: s.respCh,
			},
		}

		s.sendToRoom(roomName, reqCh, joinWrapper)
		s.joined[roomName] = reqCh

	case game.REQ_REQUEST_ACTIVE_ROOMS:
		reply(s.respCh, game.WrapResponse(
			game.RESP_ACTIVE_ROOMS,
			s.appState.RoomSvc.RoomSummaries(),
		))

	case game.REQ_JOIN_ROOM, game.REQ_JOIN_GAME:
		req := game.TryUnwrapJoinRoomRequest(wrapper)
		if req == nil {
			return
		}

		reqCh, ok := s.appState.RoomSvc.RoomReqCh(req.Name)
		if !ok {
			reply(s.respCh, game.WrapErrResponse("房间不存在"))
			return
		}

		req.ConnID = s.connID
		req.RespCh = s.respCh
		wrapper.NativeData = req

		s.sendToRoom(req.Name, reqCh, wrapper)
		s.joined[req.Name] = reqCh

	case game.REQ_LEAVE_ROOM:
		req := game.TryUnwrapLeaveRoomRequest(wrapper)
		if req == nil {
			return
		}

		reqCh, ok := s.joined[req.Name]
		if !ok {
			reply(s.respCh, game.WrapErrResponse("尚未加入该房间"))
			return
		}

		req.ConnID = s.connID
		wrapper.NativeData = req

		s.sendToRoom(req.Name, reqCh, wrapper)
		delete(s.joined, req.Name)

	case game.REQ_REQUEST_GAME_STATE:
		req := game.TryUnwrapGameStateRequest(wrapper)
		if req == nil {
			return
		}

		req.ConnID = s.connID
		req.RespCh = s.respCh
		wrapper.NativeData = req

		s.routeByRoomID(req.RoomID, wrapper)

	case game.REQ_REQUEST_PLAYER_NAMES:
		req := game.TryUnwrapPlayerNamesRequest(wrapper)
		if req == nil {
			return
		}

		req.ConnID = s.connID
		req.RespCh = s.respCh
		wrapper.NativeData = req

		s.routeByRoomID(req.RoomID, wrapper)

	case game.REQ_TOGGLE_READY:
		req := game.TryUnwrapToggleReadyRequest(wrapper)
		if req == nil {
			return
		}

		req.ConnID = s.connID
		wrapper.NativeData = req

		s.routeByRoomID(req.RoomID, wrapper)

	case game.REQ_ADD_LETTER:
		req := game.TryUnwrapAddLetterRequest(wrapper)
		if req == nil {
			return
		}

		req.ConnID = s.connID
		wrapper.NativeData = req

		s.routeByRoomID(req.RoomID, wrapper)

	case game.REQ_CHALLENGE_RESPONSE:
		req := game.TryUnwrapChallengeResponseRequest(wrapper)
		if req == nil {
			return
		}

		req.ConnID = s.connID
		wrapper.NativeData = req

		s.routeByRoomID(req.RoomID, wrapper)

	case game.REQ_SURRENDER:
		req := game.TryUnwrapSurrenderRequest(wrapper)
		if req == nil {
			return
		}

		req.ConnID = s.connID
		wrapper.NativeData = req

		s.routeByRoomID(req.RoomID, wrapper)

	default:
		zap.L().Warn(
			"未知的请求类型",
			zap.String("conn_id", s.connID),
			zap.String("request_type", wrapper.ReqType),
		)

		reply(s.respCh, game.WrapErrResponse("不支持的请求类型"))
	}
}

func (s *session) routeByRoomID(roomID string, wrapper game.RequestWrapper) {
	reqCh, ok := s.appState.RoomSvc.RoomReqCh(roomID)
	if !ok {
		reply(s.respCh, game.WrapErrResponse("房间不存在"))
		return
	}

	s.sendToRoom(roomID, reqCh, wrapper)
}

func (s *session) sendToRoom(
	roomName string,
	reqCh chan game.RequestWrapper,
	wrapper game.RequestWrapper,
) {
	select {
	case reqCh <- wrapper:
		zap.L().Debug(
			"发送请求到房间状态机",
			zap.String("room", roomName),
			zap.String("conn_id", s.connID),
			zap.String("request_type", wrapper.ReqType),
		)
	default:
		zap.L().Error(
			"发送请求到房间状态机失败：请求通道已满",
			zap.String("room", roomName),
			zap.String("conn_id", s.connID),
		)

		reply(s.respCh, game.WrapErrResponse("房间繁忙，请稍后再试"))
	}
}

// 把名字变更通知到所有已加入的房间，由房间广播给其他成员
func (s *session) notifyRoomsNameUpdated(name string) {
	for roomName, reqCh := range s.joined {
		nameWrapper := game.RequestWrapper{
			ReqType: game.REQ_NAME_UPDATED,
			NativeData: &game.NameUpdatedRequest{
				ConnID: s.connID,
				Name:   name,
			},
		}

		s.sendToRoom(roomName, reqCh, nameWrapper)
	}
}

// 非阻塞地向连接的响应通道发送，写协程不在了也不会卡住读协程
func reply(respCh chan game.ResponseWrapper, resp game.ResponseWrapper) {
	select {
	case respCh <- resp:
	default:
		zap.L().Warn("响应丢弃：响应通道已满")
	}
}
