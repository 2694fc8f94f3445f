package state

import (
	"ghost-word-be/internal/config"
	"ghost-word-be/internal/service"
	"ghost-word-be/internal/service/lexicon"
)

type AppState struct {
	Cfg         *config.AppConfig
	RoomSvc     *service.RoomService
	IdentitySvc *service.IdentityService
	Hub         *service.Hub
	Lexicon     *lexicon.Oracle
}

func NewAppState(
	cfg *config.AppConfig,
	roomSvc *service.RoomService,
	identitySvc *service.IdentityService,
	hub *service.Hub,
	lex *lexicon.Oracle,
) *AppState {
	return &AppState{
		Cfg:         cfg,
		RoomSvc:     roomSvc,
		IdentitySvc: identitySvc,
		Hub:         hub,
		Lexicon:     lex,
	}
}
