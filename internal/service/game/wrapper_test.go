package game

import (
	"encoding/json"
	"testing"
)

func TestUnwrap_DecodesJSONPayload(t *testing.T) {
	wrapper := RequestWrapper{
		ReqType: REQ_ADD_LETTER,
		Data:    mustMarshal(AddLetterRequest{RoomID: "room-1", Letter: "a"}),
	}

	req := TryUnwrapAddLetterRequest(wrapper)
	if req == nil {
		t.Fatalf("addLetter payload should decode")
	}

	if req.RoomID != "room-1" || req.Letter != "a" {
		t.Fatalf("payload fields lost in decode: %+v", req)
	}

	if req.ConnID != "" {
		t.Fatalf("ConnID must never come from the wire, got %q", req.ConnID)
	}
}

func TestUnwrap_RejectsMismatchedType(t *testing.T) {
	wrapper := RequestWrapper{
		ReqType: REQ_SURRENDER,
		Data:    mustMarshal(AddLetterRequest{RoomID: "room-1", Letter: "a"}),
	}

	if req := TryUnwrapAddLetterRequest(wrapper); req != nil {
		t.Fatalf("unwrap must be nil for a mismatched request type, got %+v", req)
	}
}

func TestUnwrap_PrefersNativeData(t *testing.T) {
	native := &AddLetterRequest{RoomID: "room-1", Letter: "z", ConnID: "conn-1"}

	wrapper := RequestWrapper{
		ReqType:    REQ_ADD_LETTER,
		Data:       json.RawMessage(`{"roomId":"other","letter":"a"}`),
		NativeData: native,
	}

	req := TryUnwrapAddLetterRequest(wrapper)
	if req != native {
		t.Fatalf("unwrap should return the injected native payload unchanged")
	}
}

func TestUnwrap_JoinGameIsAliasForJoinRoom(t *testing.T) {
	for _, reqType := range []string{REQ_JOIN_ROOM, REQ_JOIN_GAME} {
		wrapper := RequestWrapper{
			ReqType: reqType,
			Data:    mustMarshal(JoinRoomRequest{Name: "room-1"}),
		}

		req := TryUnwrapJoinRoomRequest(wrapper)
		if req == nil {
			t.Fatalf("%s should unwrap as a join request", reqType)
		}

		if req.Name != "room-1" {
			t.Fatalf("room name lost in decode for %s: %+v", reqType, req)
		}
	}
}
