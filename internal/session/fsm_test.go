package session_test

import (
	"testing"

	"github.com/dantte-lp/gowa/internal/session"
)

func TestFSMTransitionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		state       session.State
		event       session.Event
		wantState   session.State
		wantChanged bool
	}{
		{
			name:        "Closed+Dialed->Connecting",
			state:       session.StateClosed,
			event:       session.EventDialed,
			wantState:   session.StateConnecting,
			wantChanged: true,
		},
		{
			name:        "Connecting+StreamSent->Streaming",
			state:       session.StateConnecting,
			event:       session.EventStreamSent,
			wantState:   session.StateStreaming,
			wantChanged: true,
		},
		{
			name:        "Streaming+ChallengeReceived->Challenging",
			state:       session.StateStreaming,
			event:       session.EventChallengeReceived,
			wantState:   session.StateChallenging,
			wantChanged: true,
		},
		{
			name:        "Challenging+ResponseSent->Challenging (self-loop)",
			state:       session.StateChallenging,
			event:       session.EventResponseSent,
			wantState:   session.StateChallenging,
			wantChanged: false,
		},
		{
			name:        "Challenging+Success->Authenticated",
			state:       session.StateChallenging,
			event:       session.EventSuccess,
			wantState:   session.StateAuthenticated,
			wantChanged: true,
		},
		{
			name:        "Authenticated+PresenceSent->Steady",
			state:       session.StateAuthenticated,
			event:       session.EventPresenceSent,
			wantState:   session.StateSteady,
			wantChanged: true,
		},
		{
			name:        "Streaming+Failure->Closed",
			state:       session.StateStreaming,
			event:       session.EventFailure,
			wantState:   session.StateClosed,
			wantChanged: true,
		},
		{
			name:        "Steady+Closed->Closed",
			state:       session.StateSteady,
			event:       session.EventClosed,
			wantState:   session.StateClosed,
			wantChanged: true,
		},
		{
			name:        "Closed+Failure->Closed (no-op, already terminal)",
			state:       session.StateClosed,
			event:       session.EventFailure,
			wantState:   session.StateClosed,
			wantChanged: false,
		},
		{
			name:        "unlisted pair is ignored",
			state:       session.StateConnecting,
			event:       session.EventSuccess,
			wantState:   session.StateConnecting,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := session.ApplyEvent(tt.state, tt.event)

			if got.NewState != tt.wantState {
				t.Errorf("NewState = %v, want %v", got.NewState, tt.wantState)
			}

			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}

			if got.OldState != tt.state {
				t.Errorf("OldState = %v, want %v", got.OldState, tt.state)
			}
		})
	}
}
