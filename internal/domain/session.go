package domain

import "time"

type ConnState string

const (
	StateDisconnected ConnState = "disconnected"
	StateConnecting   ConnState = "connecting"
	StatePairing      ConnState = "pairing"
	StateReady        ConnState = "ready"
	StateReconnecting ConnState = "reconnecting"
	StateFailed       ConnState = "failed"
)

// Live reports whether a connection attempt is underway or established,
// i.e. whether a further Initialize call would be a no-op.
func (s ConnState) Live() bool {
	switch s {
	case StateConnecting, StatePairing, StateReady:
		return true
	}
	return false
}

// Session is the single logical binding between this application instance
// and one external messaging account. Only the lifecycle manager mutates it;
// everyone else works from value snapshots.
type Session struct {
	AccountID string
	State     ConnState
	// ReadySince is the zero time unless State == StateReady.
	ReadySince time.Time
	// LastPairingCode is the most recent pairing token issued while the
	// session awaited link approval, empty otherwise.
	LastPairingCode string
	// Credentials is the transport's serialized session material. Opaque:
	// persisted and restored verbatim, never interpreted.
	Credentials []byte
}

func NewSession(accountID string) Session {
	return Session{AccountID: accountID, State: StateDisconnected}
}

// ReconnectAttempt tracks reconnection progress since the last ready state.
// Ephemeral: never persisted, reset to zero on every transition to ready.
type ReconnectAttempt struct {
	Count     int
	NextDelay time.Duration
}

// SessionRecord is durable bookkeeping about the session, kept separate from
// the opaque credential blob so humans and other tooling can read it.
type SessionRecord struct {
	AccountID    string
	Label        string
	Address      string
	LastPairedAt time.Time
	LastReadyAt  time.Time
}
