package ports

import (
	"context"
	"fmt"
)

// Transport wraps the underlying messaging protocol client. The core treats
// it as a black box: Connect yields an event stream that carries zero or more
// pairing, credentials and activity events followed by exactly one terminal
// closed event (an open event marks the connection usable in between). Any
// unexpected ordering is treated by the consumer as a recoverable close.
type Transport interface {
	// Connect begins a single connection attempt. creds may be nil when no
	// session has been paired yet. The returned channel is closed after the
	// terminal event.
	Connect(ctx context.Context, creds []byte) (<-chan TransportEvent, error)

	// Send delivers one plain-text message. Failures should be *SendFailure
	// so the caller can classify them; any other error is treated as a
	// transient transport fault.
	Send(ctx context.Context, recipient, body string) error

	// Disconnect tears the connection down best-effort and never fails.
	Disconnect()
}

type TransportEventKind string

const (
	EventPairingCode TransportEventKind = "pairing-code"
	EventOpen        TransportEventKind = "open"
	EventClosed      TransportEventKind = "closed"
	EventCredentials TransportEventKind = "credentials"
	// EventActivity signals protocol-level liveness (keepalives, reads) so
	// the lifecycle manager can detect silently dead connections.
	EventActivity TransportEventKind = "activity"
)

type TransportEvent struct {
	Kind        TransportEventKind
	PairingCode string
	Credentials []byte
	Reason      CloseReason
}

// CloseReason explains a terminal closed event.
type CloseReason string

const (
	CloseIdleTimeout        CloseReason = "idle-timeout"
	CloseNetworkError       CloseReason = "network-error"
	CloseServerGone         CloseReason = "server-gone"
	CloseStaleConnection    CloseReason = "stale-connection"
	CloseLoggedOut          CloseReason = "logged-out"
	CloseCredentialsRevoked CloseReason = "credentials-revoked"
	CloseUnknown            CloseReason = "unknown"
)

// Recoverable reports whether the close should trigger automatic
// reconnection. Only an explicit logout or credential revocation requires
// human re-pairing; everything else, unknown reasons included, fails safe
// toward reconnecting.
func (r CloseReason) Recoverable() bool {
	switch r {
	case CloseLoggedOut, CloseCredentialsRevoked:
		return false
	}
	return true
}

type SendFailureCode string

const (
	SendFailInvalidRecipient SendFailureCode = "invalid-recipient"
	SendFailRejected         SendFailureCode = "rejected"
	SendFailUnavailable      SendFailureCode = "unavailable"
	SendFailTransport        SendFailureCode = "transport"
)

// SendFailure is a classified send error from the transport.
type SendFailure struct {
	Code    SendFailureCode
	Message string
}

func (e *SendFailure) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("send failed: %s", e.Code)
	}
	return fmt.Sprintf("send failed: %s: %s", e.Code, e.Message)
}

// Retryable reports whether retrying the same send can succeed.
func (e *SendFailure) Retryable() bool {
	switch e.Code {
	case SendFailInvalidRecipient, SendFailRejected:
		return false
	}
	return true
}
