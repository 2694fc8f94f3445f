package service

import (
	"testing"

	"ghost-word-be/internal/service/game"
)

func TestHub_SendReachesRegisteredConn(t *testing.T) {
	h := NewHub()

	respCh := make(chan game.ResponseWrapper, 4)
	h.Register("conn-1", respCh)

	if !h.Send("conn-1", game.WrapResponse(game.RESP_ACTIVE_ROOMS, nil)) {
		t.Fatalf("send to a registered connection should succeed")
	}

	select {
	case resp := <-respCh:
		if resp.RespType != game.RESP_ACTIVE_ROOMS {
			t.Fatalf("unexpected response type %q", resp.RespType)
		}
	default:
		t.Fatalf("response should be buffered on the connection channel")
	}
}

func TestHub_SendToUnknownConnFails(t *testing.T) {
	h := NewHub()

	if h.Send("absent", game.WrapErrResponse("x")) {
		t.Fatalf("send to an unknown connection must report failure")
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	h := NewHub()

	respCh := make(chan game.ResponseWrapper, 4)
	h.Register("conn-1", respCh)
	h.Unregister("conn-1")

	if h.Send("conn-1", game.WrapErrResponse("x")) {
		t.Fatalf("send after unregister must fail")
	}

	h.Broadcast(game.WrapErrResponse("x"))

	select {
	case resp := <-respCh:
		t.Fatalf("unregistered connection must not receive broadcasts, got %q", resp.RespType)
	default:
	}
}

func TestHub_BroadcastSkipsFullChannels(t *testing.T) {
	h := NewHub()

	full := make(chan game.ResponseWrapper, 1)
	full <- game.WrapErrResponse("occupied")

	open := make(chan game.ResponseWrapper, 1)

	h.Register("conn-full", full)
	h.Register("conn-open", open)

	h.Broadcast(game.WrapResponse(game.RESP_ACTIVE_ROOMS, nil))

	select {
	case resp := <-open:
		if resp.RespType != game.RESP_ACTIVE_ROOMS {
			t.Fatalf("unexpected response type %q", resp.RespType)
		}
	default:
		t.Fatalf("broadcast should reach connections with free buffer space")
	}

	if len(full) != 1 {
		t.Fatalf("a full channel must be skipped, not blocked on")
	}
}
