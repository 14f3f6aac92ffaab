package session_test

import (
	"testing"

	"github.com/dantte-lp/gowa/internal/session"
)

func TestNewMessageIDFormat(t *testing.T) {
	t.Parallel()

	s := session.New(session.Config{})

	got := s.NewMessageID("message", 1700000000)
	want := "message-1700000000-1"

	if got != want {
		t.Errorf("NewMessageID() = %q, want %q", got, want)
	}
}

func TestNewMessageIDMonotonic(t *testing.T) {
	t.Parallel()

	s := session.New(session.Config{})

	first := s.NewMessageID("message", 1700000000)
	second := s.NewMessageID("message", 1700000000)

	if first == second {
		t.Errorf("NewMessageID() returned the same id twice: %q", first)
	}

	if first != "message-1700000000-1" || second != "message-1700000000-2" {
		t.Errorf("NewMessageID() sequence = [%q, %q], want counter to increment", first, second)
	}
}
