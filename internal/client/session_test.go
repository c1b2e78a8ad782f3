// File: internal/client/session_test.go
package client

import (
	"errors"
	"testing"

	"github.com/homellm/homechat/internal/domain"
)

func TestSession_StartsHome(t *testing.T) {
	s := NewSession()
	if s.State() != StateHome {
		t.Fatalf("new session state = %v, want %v", s.State(), StateHome)
	}
	if _, ok := s.ActiveChatID(); ok {
		t.Fatal("new session should have no active chat")
	}
}

func TestSession_OpenChat(t *testing.T) {
	s := NewSession()
	if err := s.OpenChat(7); err != nil {
		t.Fatalf("OpenChat: %v", err)
	}
	if s.State() != StateActive {
		t.Fatalf("state = %v, want %v", s.State(), StateActive)
	}
	id, ok := s.ActiveChatID()
	if !ok || id != 7 {
		t.Fatalf("ActiveChatID = %d, %v; want 7, true", id, ok)
	}
}

func TestSession_SendFromHomeRejected(t *testing.T) {
	s := NewSession()
	if _, err := s.StartSend(); !errors.Is(err, ErrNoActiveChat) {
		t.Fatalf("StartSend from home = %v, want ErrNoActiveChat", err)
	}
}

func TestSession_SecondSendRejected(t *testing.T) {
	s := NewSession()
	s.OpenChat(1)
	if _, err := s.StartSend(); err != nil {
		t.Fatalf("first StartSend: %v", err)
	}
	if _, err := s.StartSend(); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("second StartSend = %v, want ErrSendInFlight", err)
	}
}

func TestSession_SwitchWhileSendingRejected(t *testing.T) {
	s := NewSession()
	s.OpenChat(1)
	s.StartSend()
	if err := s.OpenChat(2); !errors.Is(err, ErrBusy) {
		t.Fatalf("OpenChat while sending = %v, want ErrBusy", err)
	}
}

func TestSession_FinishSendSuccess(t *testing.T) {
	s := NewSession()
	s.OpenChat(1)
	seq, _ := s.StartSend()
	s.FinishSend(seq, nil)
	if s.State() != StateActive {
		t.Fatalf("state after success = %v, want %v", s.State(), StateActive)
	}
}

func TestSession_FinishSendFailureKeepsChat(t *testing.T) {
	s := NewSession()
	s.OpenChat(1)
	seq, _ := s.StartSend()
	sendErr := errors.New("backend unavailable")
	s.FinishSend(seq, sendErr)

	if s.State() != StateError {
		t.Fatalf("state after failure = %v, want %v", s.State(), StateError)
	}
	if !errors.Is(s.Err(), sendErr) {
		t.Fatalf("Err() = %v, want %v", s.Err(), sendErr)
	}
	// The chat stays loaded so the user can retry.
	if id, ok := s.ActiveChatID(); !ok || id != 1 {
		t.Fatalf("active chat lost after failed send: %d, %v", id, ok)
	}

	// A retry works from the error state.
	if _, err := s.StartSend(); err != nil {
		t.Fatalf("retry StartSend from error state: %v", err)
	}
}

func TestSession_StaleCompletionIgnored(t *testing.T) {
	s := NewSession()
	s.OpenChat(1)
	seq, _ := s.StartSend()

	// User abandons the send and opens another chat.
	s.ReturnHome()
	s.OpenChat(2)

	s.FinishSend(seq, errors.New("late failure"))
	if s.State() != StateActive {
		t.Fatalf("stale completion changed state to %v", s.State())
	}
	if s.Err() != nil {
		t.Fatalf("stale completion set error: %v", s.Err())
	}
}

func TestSession_RemoveActiveChatReturnsHome(t *testing.T) {
	s := NewSession()
	s.SetChats([]domain.Chat{{ID: 1}, {ID: 2}})
	s.OpenChat(1)

	s.RemoveChat(1)
	if s.State() != StateHome {
		t.Fatalf("state = %v, want %v", s.State(), StateHome)
	}
	if len(s.Chats()) != 1 || s.Chats()[0].ID != 2 {
		t.Fatalf("chat list after delete = %+v", s.Chats())
	}
}

func TestSession_RemoveOtherChatKeepsActive(t *testing.T) {
	s := NewSession()
	s.SetChats([]domain.Chat{{ID: 1}, {ID: 2}})
	s.OpenChat(1)

	s.RemoveChat(2)
	if s.State() != StateActive {
		t.Fatalf("deleting another chat changed state to %v", s.State())
	}
	if id, _ := s.ActiveChatID(); id != 1 {
		t.Fatalf("active chat = %d, want 1", id)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateHome, "home"},
		{StateActive, "active"},
		{StateSending, "sending"},
		{StateError, "error"},
		{State(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Fatalf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
