package gateway

import "github.com/mediloop/chatline/internal/ports"

// frame is the envelope for all gateway messages, client and server
// originated alike.
type frame struct {
	Type string `json:"type"`

	// Creds carries the base64-encoded credential blob: outbound on hello,
	// inbound on creds rotation frames.
	Creds string `json:"creds,omitempty"`

	// Code is the pairing token on pairing frames.
	Code string `json:"code,omitempty"`

	// Reason qualifies close frames.
	Reason string `json:"reason,omitempty"`

	// Send path fields.
	ID      string `json:"id,omitempty"`
	To      string `json:"to,omitempty"`
	Body    string `json:"body,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client → gateway frame types.
const (
	typeHello = "hello"
	typeSend  = "send"
	typePong  = "pong"
)

// Gateway → client frame types.
const (
	typePairing = "pairing"
	typeOpen    = "open"
	typeCreds   = "creds"
	typePing    = "ping"
	typeClose   = "close"
	typeAck     = "ack"
	typeNack    = "nack"
)

func mapCloseReason(raw string) ports.CloseReason {
	switch ports.CloseReason(raw) {
	case ports.CloseIdleTimeout,
		ports.CloseNetworkError,
		ports.CloseServerGone,
		ports.CloseStaleConnection,
		ports.CloseLoggedOut,
		ports.CloseCredentialsRevoked:
		return ports.CloseReason(raw)
	}
	return ports.CloseUnknown
}

func mapNackCode(raw string) ports.SendFailureCode {
	switch ports.SendFailureCode(raw) {
	case ports.SendFailInvalidRecipient,
		ports.SendFailRejected,
		ports.SendFailUnavailable:
		return ports.SendFailureCode(raw)
	}
	return ports.SendFailTransport
}
