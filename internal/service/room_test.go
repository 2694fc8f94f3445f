package service

import (
	"testing"
	"time"
)

type stubLexicon struct{}

func (stubLexicon) IsCompleteWord(string) bool { return false }
func (stubLexicon) CanExtend(string) bool      { return true }

func newTestRoomService() *RoomService {
	return NewRoomService(NewHub(), NewIdentityService(), stubLexicon{})
}

func TestRoomService_CreateRoomRejectsDuplicates(t *testing.T) {
	rs := newTestRoomService()
	defer rs.Close()

	if _, err := rs.CreateRoom("salle"); err != nil {
		t.Fatalf("first create should succeed, got: %v", err)
	}

	if _, err := rs.CreateRoom("salle"); err == nil {
		t.Fatalf("duplicate room name must be rejected")
	}

	if _, err := rs.CreateRoom("  "); err == nil {
		t.Fatalf("blank room name must be rejected")
	}
}

func TestRoomService_RoomReqChLookup(t *testing.T) {
	rs := newTestRoomService()
	defer rs.Close()

	created, err := rs.CreateRoom("salle")
	if err != nil {
		t.Fatalf("create should succeed, got: %v", err)
	}

	found, ok := rs.RoomReqCh("salle")
	if !ok {
		t.Fatalf("created room should be found")
	}

	if found != created {
		t.Fatalf("lookup should return the room's request channel")
	}

	if _, ok := rs.RoomReqCh("absente"); ok {
		t.Fatalf("unknown room must not be found")
	}
}

func TestRoomService_SweepKeepsRoomsWithinGrace(t *testing.T) {
	rs := newTestRoomService()
	defer rs.Close()

	if _, err := rs.CreateRoom("salle"); err != nil {
		t.Fatalf("create should succeed, got: %v", err)
	}

	if rs.sweepEmptyRooms() {
		t.Fatalf("a freshly created room must survive the sweep")
	}

	if _, ok := rs.RoomReqCh("salle"); !ok {
		t.Fatalf("room should still exist within the grace period")
	}
}

func TestRoomService_SweepRemovesExpiredEmptyRooms(t *testing.T) {
	rs := newTestRoomService()
	defer rs.Close()

	if _, err := rs.CreateRoom("salle"); err != nil {
		t.Fatalf("create should succeed, got: %v", err)
	}

	if rs.state.rooms["salle"].createdAt.IsZero() {
		t.Fatalf("room entry should record its creation time")
	}

	expired := time.Now().Add(-EMPTY_ROOM_GRACE - time.Second).UnixMilli()
	rs.state.rooms["salle"].stats.EmptySinceMs.Store(expired)

	if !rs.sweepEmptyRooms() {
		t.Fatalf("an expired empty room should be removed")
	}

	if _, ok := rs.RoomReqCh("salle"); ok {
		t.Fatalf("removed room must not be found anymore")
	}
}

func TestRoomService_SweepSparesReoccupiedRooms(t *testing.T) {
	rs := newTestRoomService()
	defer rs.Close()

	if _, err := rs.CreateRoom("salle"); err != nil {
		t.Fatalf("create should succeed, got: %v", err)
	}

	// 模拟标记过期后又有人进来的并发窗口
	stats := rs.state.rooms["salle"].stats
	stats.EmptySinceMs.Store(time.Now().Add(-EMPTY_ROOM_GRACE - time.Second).UnixMilli())
	stats.Members.Store(1)

	if rs.sweepEmptyRooms() {
		t.Fatalf("a reoccupied room must not be removed")
	}
}

func TestRoomService_RoomSummariesSnapshot(t *testing.T) {
	rs := newTestRoomService()
	defer rs.Close()

	if _, err := rs.CreateRoom("salle"); err != nil {
		t.Fatalf("create should succeed, got: %v", err)
	}

	stats := rs.state.rooms["salle"].stats
	stats.Members.Store(3)
	stats.Started.Store(true)

	summaries := rs.RoomSummaries()

	summary, ok := summaries["salle"]
	if !ok {
		t.Fatalf("summary should include the room")
	}

	if summary.Users != 3 || !summary.GameStarted {
		t.Fatalf("summary should mirror the room stats, got %+v", summary)
	}
}
