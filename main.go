package main

import (
	"ghost-word-be/internal/api/http"
	"ghost-word-be/internal/config"
	"ghost-word-be/internal/logger"
	"ghost-word-be/internal/service"
	"ghost-word-be/internal/service/lexicon"
	"ghost-word-be/internal/state"
)

func main() {
	// 加载配置
	cfg := config.InitConfig()

	// 初始化日志器
	logger.InitLogger(cfg.LogLevel)

	// 组装各服务
	hub := service.NewHub()
	identitySvc := service.NewIdentityService()
	lex := lexicon.NewOracle(
		cfg.DictionaryAPIURL,
		cfg.DictionaryAPIKey,
		cfg.Language,
	)

	roomSvc := service.NewRoomService(hub, identitySvc, lex)
	defer roomSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(
		cfg,
		roomSvc,
		identitySvc,
		hub,
		lex,
	)

	// 启动服务器
	http.RunServer(appState)
}
