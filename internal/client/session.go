// File: internal/client/session.go
package client

import (
	"errors"

	"github.com/homellm/homechat/internal/domain"
)

// State is the client session's position in its lifecycle.
type State int

const (
	// StateHome: no active chat, the welcome view is shown.
	StateHome State = iota
	// StateActive: a chat is loaded and idle.
	StateActive
	// StateSending: a turn is in flight for the active chat.
	StateSending
	// StateError: the last turn failed; the chat stays loaded and the
	// user may retry.
	StateError
)

func (s State) String() string {
	switch s {
	case StateHome:
		return "home"
	case StateActive:
		return "active"
	case StateSending:
		return "sending"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	ErrSendInFlight = errors.New("a send is already in flight")
	ErrNoActiveChat = errors.New("no active chat")
	ErrBusy         = errors.New("cannot switch chats while a send is in flight")
)

// Session is the client's ephemeral view of which chat is active and
// whether a send is outstanding, plus the cached chat list. It is an
// explicit value passed through the UI layer, never ambient global
// state. At most one send can be in flight at any time.
//
// Session performs no I/O itself; the caller persists and then reports
// outcomes through the transition methods.
type Session struct {
	state        State
	activeChatID uint // 0 means none
	lastErr      error
	chats        []domain.Chat
	sendSeq      uint64
}

func NewSession() *Session {
	return &Session{state: StateHome}
}

func (s *Session) State() State { return s.state }

// ActiveChatID reports the loaded chat, if any. It is zero exactly
// when the welcome view is shown.
func (s *Session) ActiveChatID() (uint, bool) {
	return s.activeChatID, s.activeChatID != 0
}

// Chats returns the cached chat list, most recently touched first.
func (s *Session) Chats() []domain.Chat { return s.chats }

// Err returns the failure that put the session into StateError.
func (s *Session) Err() error { return s.lastErr }

// SetChats refreshes the cached list. Called after every
// create/rename/delete and after every completed send, so the UI and
// the store never diverge for more than one round trip.
func (s *Session) SetChats(chats []domain.Chat) {
	s.chats = chats
}

// OpenChat makes a chat the active one. Switching away is not allowed
// while a send is in flight; everything else transitions to Active.
func (s *Session) OpenChat(chatID uint) error {
	if s.state == StateSending {
		return ErrBusy
	}
	if chatID == 0 {
		return ErrNoActiveChat
	}
	s.activeChatID = chatID
	s.state = StateActive
	s.lastErr = nil
	return nil
}

// StartSend begins a turn for the active chat. A second send while one
// is outstanding is rejected; the caller must not issue the request.
// The returned sequence number pairs the eventual FinishSend with this
// send, so an abandoned turn's late result cannot corrupt the state.
func (s *Session) StartSend() (uint64, error) {
	switch s.state {
	case StateSending:
		return 0, ErrSendInFlight
	case StateHome:
		return 0, ErrNoActiveChat
	}
	s.sendSeq++
	s.state = StateSending
	s.lastErr = nil
	return s.sendSeq, nil
}

// FinishSend completes the turn started with the matching sequence
// number. Stale completions (after ReturnHome abandoned the send, or
// from an earlier retry) are ignored.
func (s *Session) FinishSend(seq uint64, err error) {
	if s.state != StateSending || seq != s.sendSeq {
		return
	}
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return
	}
	s.state = StateActive
	s.lastErr = nil
}

// RemoveChat drops a chat from the session after it was deleted in the
// store. Deleting the active chat returns the session home; deleting
// any other chat only touches the cached list.
func (s *Session) RemoveChat(chatID uint) {
	kept := s.chats[:0]
	for _, c := range s.chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	s.chats = kept

	if chatID == s.activeChatID {
		s.ReturnHome()
	}
}

// ReturnHome shows the welcome view from any state. An in-flight send
// is simply abandoned; its completion will be ignored.
func (s *Session) ReturnHome() {
	s.state = StateHome
	s.activeChatID = 0
	s.lastErr = nil
}
