package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediloop/chatline/internal/broadcast"
	"github.com/mediloop/chatline/internal/domain"
	"github.com/mediloop/chatline/internal/ports"
)

const (
	defaultMaxAttempts     = 5
	defaultStaleAfter      = 10 * time.Minute
	defaultStaleCheckEvery = time.Minute
)

type LifecycleConfig struct {
	AccountID string
	// MaxAttempts is the number of consecutive recoverable closes tolerated
	// before the session is declared failed and credentials are wiped.
	MaxAttempts int
	Backoff     domain.BackoffPolicy
	// StaleAfter is how long a ready connection may stay silent before it is
	// torn down and reconnected.
	StaleAfter      time.Duration
	StaleCheckEvery time.Duration
}

func (c *LifecycleConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.Backoff.Initial <= 0 {
		c.Backoff = domain.ReconnectBackoff()
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = defaultStaleAfter
	}
	if c.StaleCheckEvery <= 0 {
		c.StaleCheckEvery = defaultStaleCheckEvery
	}
}

// LifecycleService owns the connection state machine: it drives connect and
// reconnect attempts against the transport, persists credential rotations
// write-ahead, and republishes lifecycle events to subscribers. It is the
// only writer of the Session; everyone else reads value snapshots.
type LifecycleService struct {
	transport ports.Transport
	creds     ports.CredentialStore
	records   ports.SessionRecordRepository
	events    *broadcast.Broadcaster
	clock     ports.Clock
	log       zerolog.Logger
	cfg       LifecycleConfig
	rng       *rand.Rand

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu   sync.Mutex
	sess domain.Session
	// attempt counts recoverable closes since the last ready state.
	attempt domain.ReconnectAttempt
	// initializing guards the window between an Initialize call and the
	// state transition becoming visible, so two callers cannot race into two
	// transport connections.
	initializing bool
	credsLoaded  bool
	// gen identifies the current connection. Events and close handling from
	// an older generation are ignored, which keeps exactly one connect
	// attempt live even across proactive teardowns.
	gen uint64
	// backoffTimer is the single pending-reconnect slot. Cancel-and-replace:
	// a manual Initialize during the wait stops it and connects immediately.
	backoffTimer *time.Timer
	lastActivity time.Time
}

func NewLifecycleService(
	transport ports.Transport,
	creds ports.CredentialStore,
	records ports.SessionRecordRepository,
	events *broadcast.Broadcaster,
	clock ports.Clock,
	log zerolog.Logger,
	cfg LifecycleConfig,
) *LifecycleService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	cfg.applyDefaults()

	baseCtx, cancel := context.WithCancel(context.Background())

	s := &LifecycleService{
		transport:  transport,
		creds:      creds,
		records:    records,
		events:     events,
		clock:      clock,
		log:        log.With().Str("component", "lifecycle").Logger(),
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(clock.Now().UnixNano())),
		baseCtx:    baseCtx,
		cancelBase: cancel,
		sess:       domain.NewSession(cfg.AccountID),
	}

	go s.watchStale()

	return s
}

// Initialize starts a connection attempt. It is idempotent: while a
// connection is being established or is already up it does nothing. During a
// pending backoff wait it cancels the timer and connects immediately. While
// the session is failed it returns domain.ErrSessionFailed; only an explicit
// Reset leaves that state.
func (s *LifecycleService) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.sess.State == domain.StateFailed {
		s.mu.Unlock()
		return domain.ErrSessionFailed
	}
	if s.initializing || s.sess.State.Live() {
		s.mu.Unlock()
		return nil
	}
	if s.backoffTimer != nil {
		s.backoffTimer.Stop()
		s.backoffTimer = nil
	}
	s.initializing = true
	s.sess.State = domain.StateConnecting
	s.mu.Unlock()

	go s.connect()
	return nil
}

// Reset tears down any live connection, wipes persisted credentials, and
// returns the state machine to disconnected, ready for a fresh pairing.
func (s *LifecycleService) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.backoffTimer != nil {
		s.backoffTimer.Stop()
		s.backoffTimer = nil
	}
	s.gen++
	wasLive := s.sess.State.Live()
	s.initializing = false
	s.sess = domain.NewSession(s.cfg.AccountID)
	s.attempt = domain.ReconnectAttempt{}
	s.credsLoaded = true
	s.mu.Unlock()

	if wasLive {
		s.transport.Disconnect()
	}

	if err := s.creds.Delete(ctx, s.cfg.AccountID); err != nil {
		return fmt.Errorf("wipe credentials: %w", err)
	}

	s.log.Info().Msg("session reset, credentials cleared")
	s.events.Publish(broadcast.Event{Kind: broadcast.EventSessionCleared, At: s.clock.Now()})
	return nil
}

// Shutdown stops the service without touching persisted credentials.
func (s *LifecycleService) Shutdown() {
	s.mu.Lock()
	if s.backoffTimer != nil {
		s.backoffTimer.Stop()
		s.backoffTimer = nil
	}
	s.gen++
	wasLive := s.sess.State.Live()
	s.initializing = false
	if s.sess.State != domain.StateFailed {
		s.sess.State = domain.StateDisconnected
		s.sess.ReadySince = time.Time{}
	}
	s.mu.Unlock()

	s.cancelBase()
	if wasLive {
		s.transport.Disconnect()
	}
	s.events.Close()
}

// Snapshot returns a consistent copy of the session.
func (s *LifecycleService) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.sess
	if s.sess.Credentials != nil {
		snap.Credentials = append([]byte(nil), s.sess.Credentials...)
	}
	return snap
}

// Attempts returns the reconnect counter for diagnostics.
func (s *LifecycleService) Attempts() domain.ReconnectAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempt
}

// AwaitReady blocks until the session reaches ready, the session fails, or
// ctx expires.
func (s *LifecycleService) AwaitReady(ctx context.Context) error {
	id, ch := s.events.Subscribe("")
	defer s.events.Unsubscribe(id)

	check := func() (done bool, err error) {
		switch s.Snapshot().State {
		case domain.StateReady:
			return true, nil
		case domain.StateFailed:
			return true, domain.ErrSessionFailed
		}
		return false, nil
	}

	if done, err := check(); done {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, open := <-ch:
			if !open {
				return domain.ErrNotInitialized
			}
			if done, err := check(); done {
				return err
			}
		}
	}
}

func (s *LifecycleService) connect() {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	creds := s.loadCredentials()

	stream, err := s.transport.Connect(s.baseCtx, creds)

	s.mu.Lock()
	s.initializing = false
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("connect attempt failed")
		s.handleClose(gen, ports.CloseNetworkError)
		return
	}

	s.consume(stream, gen)
}

// loadCredentials returns the current credential blob, reading the durable
// copy exactly once per process so a previously paired session resumes
// without re-issuing a pairing code.
func (s *LifecycleService) loadCredentials() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.credsLoaded {
		blob, err := s.creds.Get(s.baseCtx, s.cfg.AccountID)
		switch {
		case err == nil:
			s.sess.Credentials = blob
		case errors.Is(err, domain.ErrCredentialsNotFound):
		default:
			s.log.Error().Err(err).Msg("load persisted credentials")
		}
		s.credsLoaded = true
	}

	return s.sess.Credentials
}

func (s *LifecycleService) consume(stream <-chan ports.TransportEvent, gen uint64) {
	for ev := range stream {
		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.lastActivity = s.clock.Now()

		switch ev.Kind {
		case ports.EventPairingCode:
			s.sess.State = domain.StatePairing
			s.sess.LastPairingCode = ev.PairingCode
			s.mu.Unlock()
			s.log.Info().Msg("pairing code issued")
			s.events.Publish(broadcast.Event{
				Kind:        broadcast.EventPairingIssued,
				PairingCode: ev.PairingCode,
				At:          s.clock.Now(),
			})

		case ports.EventCredentials:
			// Write-ahead: the durable copy is updated before the in-memory
			// session, so a crash in between falls back to the last
			// persisted credentials on restart.
			if err := s.creds.Put(s.baseCtx, s.cfg.AccountID, ev.Credentials); err != nil {
				s.mu.Unlock()
				s.log.Error().Err(err).Msg("persist rotated credentials")
				break
			}
			s.sess.Credentials = append([]byte(nil), ev.Credentials...)
			s.mu.Unlock()

		case ports.EventOpen:
			paired := s.sess.LastPairingCode != ""
			s.sess.State = domain.StateReady
			s.sess.ReadySince = s.clock.Now()
			s.sess.LastPairingCode = ""
			s.attempt = domain.ReconnectAttempt{}
			s.mu.Unlock()
			s.log.Info().Bool("freshly_paired", paired).Msg("connection ready")
			s.events.Publish(broadcast.Event{Kind: broadcast.EventReady, At: s.clock.Now()})
			s.touchRecord(paired)

		case ports.EventActivity:
			s.mu.Unlock()

		case ports.EventClosed:
			s.mu.Unlock()
			s.handleClose(gen, ev.Reason)
			return

		default:
			// Unknown event kinds from the adapter are treated as a
			// recoverable close rather than trusted.
			s.mu.Unlock()
			s.log.Warn().Str("kind", string(ev.Kind)).Msg("unexpected transport event")
			s.handleClose(gen, ports.CloseUnknown)
			return
		}
	}

	// Stream ended without a terminal closed event: fail safe toward
	// reconnection.
	s.handleClose(gen, ports.CloseUnknown)
}

func (s *LifecycleService) handleClose(gen uint64, reason ports.CloseReason) {
	s.mu.Lock()

	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.gen++

	if reason == "" {
		reason = ports.CloseUnknown
	}

	if !reason.Recoverable() {
		s.failLocked(reason)
		s.mu.Unlock()
		return
	}

	s.attempt.Count++
	if s.attempt.Count >= s.cfg.MaxAttempts {
		s.log.Error().Int("attempts", s.attempt.Count).Msg("reconnect attempts exhausted")
		s.failLocked(reason)
		s.mu.Unlock()
		return
	}

	if s.sess.State == domain.StateReady {
		s.sess.State = domain.StateReconnecting
	} else {
		s.sess.State = domain.StateDisconnected
	}
	s.sess.ReadySince = time.Time{}

	delay := s.cfg.Backoff.Delay(s.attempt.Count, s.rng)
	s.attempt.NextDelay = delay

	if s.backoffTimer != nil {
		s.backoffTimer.Stop()
	}
	s.backoffTimer = time.AfterFunc(delay, s.retryConnect)

	attempt := s.attempt.Count
	s.mu.Unlock()

	s.log.Warn().
		Str("reason", string(reason)).
		Int("attempt", attempt).
		Dur("backoff", delay).
		Msg("connection closed, reconnect scheduled")
	s.events.Publish(broadcast.Event{Kind: broadcast.EventClosed, Reason: reason, At: s.clock.Now()})
}

// failLocked moves the session to the terminal failed state and wipes
// credentials: a close that requires re-pairing means the persisted blob is
// no longer trustworthy. Callers hold s.mu.
func (s *LifecycleService) failLocked(reason ports.CloseReason) {
	if err := s.creds.Delete(s.baseCtx, s.cfg.AccountID); err != nil {
		s.log.Error().Err(err).Msg("wipe credentials on failure")
	}
	s.sess.Credentials = nil
	s.credsLoaded = true
	s.sess.State = domain.StateFailed
	s.sess.ReadySince = time.Time{}
	s.sess.LastPairingCode = ""

	s.log.Error().Str("reason", string(reason)).Msg("session failed, re-pairing required")
	s.events.Publish(broadcast.Event{Kind: broadcast.EventClosed, Reason: reason, At: s.clock.Now()})
	s.events.Publish(broadcast.Event{Kind: broadcast.EventSessionCleared, At: s.clock.Now()})
}

func (s *LifecycleService) retryConnect() {
	s.mu.Lock()
	if s.initializing || s.sess.State.Live() || s.sess.State == domain.StateFailed {
		s.mu.Unlock()
		return
	}
	s.backoffTimer = nil
	s.initializing = true
	s.sess.State = domain.StateConnecting
	s.mu.Unlock()

	s.connect()
}

// watchStale tears down a ready connection that has shown no transport
// activity for longer than the staleness threshold, rather than trusting a
// connection the remote end may have silently dropped.
func (s *LifecycleService) watchStale() {
	ticker := time.NewTicker(s.cfg.StaleCheckEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		stale := s.sess.State == domain.StateReady &&
			s.clock.Now().Sub(s.lastActivity) > s.cfg.StaleAfter
		gen := s.gen
		s.mu.Unlock()

		if !stale {
			continue
		}

		s.log.Warn().Dur("threshold", s.cfg.StaleAfter).Msg("connection stale, forcing reconnect")
		s.transport.Disconnect()
		s.handleClose(gen, ports.CloseStaleConnection)
	}
}

// touchRecord updates the durable session record after a successful
// connection. Best-effort: bookkeeping failures never alter lifecycle state.
func (s *LifecycleService) touchRecord(paired bool) {
	if s.records == nil {
		return
	}

	record, err := s.records.Get(s.baseCtx, s.cfg.AccountID)
	if err != nil && !errors.Is(err, domain.ErrSessionRecordNotFound) {
		s.log.Warn().Err(err).Msg("load session record")
		return
	}
	record.AccountID = s.cfg.AccountID

	now := s.clock.Now()
	record.LastReadyAt = now
	if paired {
		record.LastPairedAt = now
	}

	if err := s.records.Save(s.baseCtx, record); err != nil {
		s.log.Warn().Err(err).Msg("save session record")
	}
}
