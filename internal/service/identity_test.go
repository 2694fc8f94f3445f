package service

import (
	"strings"
	"testing"
)

func TestIdentityService_SetNameTruncates(t *testing.T) {
	is := NewIdentityService()

	long := strings.Repeat("a", 40)

	name, ok := is.SetName("conn-1", long, "")
	if !ok {
		t.Fatalf("non-empty name should be accepted")
	}

	if len([]rune(name)) != MAX_NAME_LEN {
		t.Fatalf("name should be truncated to %d characters, got %d", MAX_NAME_LEN, len([]rune(name)))
	}

	if got := is.DisplayName("conn-1"); got != name {
		t.Fatalf("display name mismatch, want %q got %q", name, got)
	}
}

func TestIdentityService_EmptyNameIsNoOp(t *testing.T) {
	is := NewIdentityService()

	is.SetName("conn-1", "Alice", "")

	if _, ok := is.SetName("conn-1", "   ", ""); ok {
		t.Fatalf("whitespace-only names must be rejected")
	}

	if got := is.DisplayName("conn-1"); got != "Alice" {
		t.Fatalf("previous name should survive an empty update, got %q", got)
	}
}

func TestIdentityService_SessionSurvivesDisconnect(t *testing.T) {
	is := NewIdentityService()

	is.SetName("conn-1", "Alice", "token-1")
	is.OnDisconnect("conn-1")

	if _, ok := is.KnownName("conn-1"); ok {
		t.Fatalf("connection-level name should be cleared on disconnect")
	}

	name, ok := is.ResolveSession("conn-2", "token-1")
	if !ok {
		t.Fatalf("session token should restore the name after reconnect")
	}

	if name != "Alice" {
		t.Fatalf("restored name mismatch, want Alice got %q", name)
	}

	if got := is.DisplayName("conn-2"); got != "Alice" {
		t.Fatalf("restored name should attach to the new connection, got %q", got)
	}
}

func TestIdentityService_UnknownSessionFails(t *testing.T) {
	is := NewIdentityService()

	if _, ok := is.ResolveSession("conn-1", "missing"); ok {
		t.Fatalf("unknown session token must not restore a name")
	}
}

func TestIdentityService_DisplayNameFallsBackToSessionName(t *testing.T) {
	is := NewIdentityService()

	// 连接级名字缺失但会话链接还在的中间态
	is.sessionNames["token-1"] = "Alice"
	is.connSessions["conn-1"] = "token-1"

	if got := is.DisplayName("conn-1"); got != "Alice" {
		t.Fatalf("display name should fall back to the session name, got %q", got)
	}
}

func TestIdentityService_FallbackUsesConnPrefix(t *testing.T) {
	is := NewIdentityService()

	got := is.DisplayName("abcdefgh")
	if !strings.HasSuffix(got, "abcdef") {
		t.Fatalf("fallback display name should use the six-character prefix, got %q", got)
	}
}
