package http

import (
	"ghost-word-be/internal/state"

	"github.com/kataras/iris/v12"
)

// ListRooms 返回当前所有房间的快照
// 与 WebSocket 推送的 activeRooms 内容一致，供页面首次加载时拉取
func ListRooms(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.RoomSvc.RoomSummaries())
	}
}
