// Package gateway implements the Transport port over a WebSocket connection
// to a messaging gateway speaking a small JSON frame protocol.
package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mediloop/chatline/internal/ports"
)

const (
	writeDeadline = 10 * time.Second
	eventBufCap   = 16
)

type Client struct {
	url    string
	dialer *websocket.Dialer
	log    zerolog.Logger

	mu   sync.Mutex
	conn *gatewayConn
}

var _ ports.Transport = (*Client)(nil)

// gatewayConn is the per-connection state. A fresh one is created on every
// Connect so a late reader from a torn-down connection can never touch the
// current one.
type gatewayConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once

	pendMu  sync.Mutex
	pending map[string]chan frame
}

func NewClient(url string, log zerolog.Logger) *Client {
	return &Client{
		url:    url,
		dialer: websocket.DefaultDialer,
		log:    log.With().Str("component", "gateway").Logger(),
	}
}

func (c *Client) Connect(ctx context.Context, creds []byte) (<-chan ports.TransportEvent, error) {
	ws, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial gateway %s: %w", c.url, err)
	}

	conn := &gatewayConn{
		ws:      ws,
		done:    make(chan struct{}),
		pending: map[string]chan frame{},
	}

	hello := frame{Type: typeHello}
	if len(creds) > 0 {
		hello.Creds = base64.StdEncoding.EncodeToString(creds)
	}
	if err := conn.write(hello); err != nil {
		ws.Close()
		return nil, fmt.Errorf("send hello: %w", err)
	}

	c.mu.Lock()
	if prev := c.conn; prev != nil {
		prev.close()
	}
	c.conn = conn
	c.mu.Unlock()

	events := make(chan ports.TransportEvent, eventBufCap)
	go c.readLoop(conn, events)

	return events, nil
}

func (c *Client) Send(ctx context.Context, recipient, body string) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return &ports.SendFailure{Code: ports.SendFailUnavailable, Message: "not connected"}
	}

	id := uuid.NewString()
	reply := make(chan frame, 1)

	conn.pendMu.Lock()
	conn.pending[id] = reply
	conn.pendMu.Unlock()
	defer func() {
		conn.pendMu.Lock()
		delete(conn.pending, id)
		conn.pendMu.Unlock()
	}()

	if err := conn.write(frame{Type: typeSend, ID: id, To: recipient, Body: body}); err != nil {
		return &ports.SendFailure{Code: ports.SendFailTransport, Message: err.Error()}
	}

	select {
	case f := <-reply:
		if f.Type == typeAck {
			return nil
		}
		return &ports.SendFailure{Code: mapNackCode(f.Error), Message: f.Message}
	case <-conn.done:
		return &ports.SendFailure{Code: ports.SendFailTransport, Message: "connection closed"}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}

	conn.once.Do(func() {
		// done must close before the handshake so the read loop treats the
		// server's close echo as deliberate teardown, not a fault.
		close(conn.done)

		deadline := time.Now().Add(time.Second)
		conn.writeMu.Lock()
		_ = conn.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		conn.writeMu.Unlock()
		conn.ws.Close()
	})
}

func (c *Client) readLoop(conn *gatewayConn, events chan<- ports.TransportEvent) {
	defer close(events)
	defer conn.close()

	emit := func(ev ports.TransportEvent) bool {
		select {
		case events <- ev:
			return true
		case <-conn.done:
			return false
		}
	}

	for {
		var f frame
		if err := conn.ws.ReadJSON(&f); err != nil {
			select {
			case <-conn.done:
				// Deliberate teardown, not a transport fault.
			default:
				c.log.Debug().Err(err).Msg("gateway read failed")
				emit(ports.TransportEvent{Kind: ports.EventClosed, Reason: ports.CloseNetworkError})
			}
			return
		}

		switch f.Type {
		case typePairing:
			if !emit(ports.TransportEvent{Kind: ports.EventPairingCode, PairingCode: f.Code}) {
				return
			}

		case typeOpen:
			if !emit(ports.TransportEvent{Kind: ports.EventOpen}) {
				return
			}

		case typeCreds:
			blob, err := base64.StdEncoding.DecodeString(f.Creds)
			if err != nil {
				c.log.Warn().Err(err).Msg("undecodable credentials frame dropped")
				continue
			}
			if !emit(ports.TransportEvent{Kind: ports.EventCredentials, Credentials: blob}) {
				return
			}

		case typePing:
			if err := conn.write(frame{Type: typePong}); err != nil {
				emit(ports.TransportEvent{Kind: ports.EventClosed, Reason: ports.CloseNetworkError})
				return
			}
			if !emit(ports.TransportEvent{Kind: ports.EventActivity}) {
				return
			}

		case typeClose:
			emit(ports.TransportEvent{Kind: ports.EventClosed, Reason: mapCloseReason(f.Reason)})
			return

		case typeAck, typeNack:
			conn.pendMu.Lock()
			reply, ok := conn.pending[f.ID]
			conn.pendMu.Unlock()
			if ok {
				reply <- f
			}

		default:
			// Unknown frames still prove the connection is alive.
			c.log.Debug().Str("type", f.Type).Msg("ignoring unknown gateway frame")
			if !emit(ports.TransportEvent{Kind: ports.EventActivity}) {
				return
			}
		}
	}
}

func (gc *gatewayConn) write(f frame) error {
	gc.writeMu.Lock()
	defer gc.writeMu.Unlock()

	_ = gc.ws.SetWriteDeadline(time.Now().Add(writeDeadline))
	return gc.ws.WriteJSON(f)
}

func (gc *gatewayConn) close() {
	gc.once.Do(func() {
		close(gc.done)
		gc.ws.Close()
	})
}
