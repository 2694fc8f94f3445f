package websocket

import (
	"testing"

	"ghost-word-be/internal/service"
	"ghost-word-be/internal/service/game"
	"ghost-word-be/internal/state"
)

type stubLexicon struct{}

func (stubLexicon) IsCompleteWord(string) bool { return false }
func (stubLexicon) CanExtend(string) bool      { return true }

func newTestSession(t *testing.T) (*session, *service.RoomService) {
	t.Helper()

	hub := service.NewHub()
	identitySvc := service.NewIdentityService()
	roomSvc := service.NewRoomService(hub, identitySvc, stubLexicon{})

	appState := state.NewAppState(nil, roomSvc, identitySvc, hub, nil)

	respCh := make(chan game.ResponseWrapper, 64)
	hub.Register("conn-1", respCh)

	return &session{
		appState: appState,
		connID:   "conn-1",
		respCh:   respCh,
		joined:   make(map[string]chan game.RequestWrapper),
	}, roomSvc
}

func TestDispatch_CreateRoomNormalizesName(t *testing.T) {
	sess, roomSvc := newTestSession(t)
	defer roomSvc.Close()

	sess.dispatch(game.RequestWrapper{
		ReqType:    game.REQ_CREATE_ROOM,
		NativeData: &game.CreateRoomRequest{Name: "  salle  "},
	})

	if _, ok := roomSvc.RoomReqCh("salle"); !ok {
		t.Fatalf("room should be registered under the trimmed name")
	}

	if _, ok := sess.joined["salle"]; !ok {
		t.Fatalf("session should track the room under the trimmed name, got %v", sess.joined)
	}

	var created *game.RoomCreatedResponse

	for len(sess.respCh) > 0 {
		resp := <-sess.respCh
		if resp.RespType == game.RESP_ROOM_CREATED {
			data, ok := resp.Data.(game.RoomCreatedResponse)
			if !ok {
				t.Fatalf("roomCreated payload has unexpected type %T", resp.Data)
			}
			created = &data
		}
	}

	if created == nil {
		t.Fatalf("creator should receive a roomCreated notification")
	}

	if created.RoomName != "salle" {
		t.Fatalf("roomCreated should echo the trimmed name, got %q", created.RoomName)
	}
}

func TestDispatch_JoinUnknownRoomReportsError(t *testing.T) {
	sess, roomSvc := newTestSession(t)
	defer roomSvc.Close()

	sess.dispatch(game.RequestWrapper{
		ReqType:    game.REQ_JOIN_ROOM,
		NativeData: &game.JoinRoomRequest{Name: "absente"},
	})

	if len(sess.joined) != 0 {
		t.Fatalf("failed join must not track the room")
	}

	gotError := false
	for len(sess.respCh) > 0 {
		if resp := <-sess.respCh; resp.RespType == game.RESP_ERROR {
			gotError = true
		}
	}

	if !gotError {
		t.Fatalf("joining an unknown room should produce an error notification")
	}
}
