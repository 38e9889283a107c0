package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mediloop/chatline/internal/domain"
	"github.com/mediloop/chatline/internal/ports"
)

const (
	defaultSendDeadline = 60 * time.Second
	defaultMaxRetry     = 3
)

type DeliveryConfig struct {
	// Deadline bounds the whole send, measured from request creation. The
	// outcome is timed_out once it elapses, retries remaining or not.
	Deadline time.Duration
	// MaxRetry is the total number of transport send attempts for one
	// request.
	MaxRetry int
	Backoff  domain.BackoffPolicy
}

func (c *DeliveryConfig) applyDefaults() {
	if c.Deadline <= 0 {
		c.Deadline = defaultSendDeadline
	}
	if c.MaxRetry <= 0 {
		c.MaxRetry = defaultMaxRetry
	}
	if c.Backoff.Initial <= 0 {
		c.Backoff = domain.SendRetryBackoff()
	}
}

// SessionSource exposes the lifecycle manager's current session to readers.
type SessionSource interface {
	Snapshot() domain.Session
}

// DeliveryService accepts send requests, gates them on a usable connection,
// and resolves each to a terminal outcome within a bounded time. Requests
// are never queued across reconnects: a stale reminder delivered late is
// worse than a clear failure the caller can re-surface.
type DeliveryService struct {
	transport ports.Transport
	source    SessionSource
	clock     ports.Clock
	log       zerolog.Logger
	cfg       DeliveryConfig
}

func NewDeliveryService(
	transport ports.Transport,
	source SessionSource,
	clock ports.Clock,
	log zerolog.Logger,
	cfg DeliveryConfig,
) *DeliveryService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	cfg.applyDefaults()

	return &DeliveryService{
		transport: transport,
		source:    source,
		clock:     clock,
		log:       log.With().Str("component", "delivery").Logger(),
		cfg:       cfg,
	}
}

// Send delivers one plain-text message and returns its terminal outcome.
// Expected failure modes are encoded in the outcome, never as an error; the
// error return fires only for programmer misuse (unwired subsystem, caller
// cancellation).
func (s *DeliveryService) Send(ctx context.Context, recipient, body string) (domain.Outcome, error) {
	if s == nil || s.transport == nil || s.source == nil {
		return domain.Outcome{}, domain.ErrNotInitialized
	}

	req := domain.SendRequest{ID: uuid.NewString(), CreatedAt: s.clock.Now()}
	log := s.log.With().Str("request_id", req.ID).Logger()

	if strings.TrimSpace(body) == "" {
		return domain.Rejected(domain.RejectEmptyBody, 0), nil
	}

	normalized, err := domain.NormalizeRecipient(recipient)
	if err != nil {
		log.Debug().Msg("recipient failed normalization")
		return domain.Rejected(domain.RejectInvalidRecipient, 0), nil
	}
	req.Recipient = normalized
	req.Body = body

	if s.source.Snapshot().State != domain.StateReady {
		return domain.Rejected(domain.RejectNotReady, 0), nil
	}

	deadline := req.Deadline(s.cfg.Deadline)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	for attempt := 1; attempt <= s.cfg.MaxRetry; attempt++ {
		if s.clock.Now().After(deadline) {
			return domain.TimedOut(attempt - 1), nil
		}
		// The connection may drop mid-retry; continuing to hammer a dead
		// connection helps nobody.
		if s.source.Snapshot().State != domain.StateReady {
			return domain.Rejected(domain.RejectConnectionLost, attempt - 1), nil
		}

		sendErr := s.transport.Send(ctx, req.Recipient, req.Body)
		req.RetryCount = attempt
		if sendErr == nil {
			log.Debug().Int("attempts", attempt).Msg("message delivered")
			return domain.Delivered(attempt), nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return domain.TimedOut(attempt), nil
			}
			return domain.Outcome{}, ctxErr
		}

		if reason, retryable := classifySendError(sendErr); !retryable {
			log.Warn().Err(sendErr).Msg("send rejected, not retrying")
			return domain.Rejected(reason, attempt), nil
		}

		if attempt == s.cfg.MaxRetry {
			log.Warn().Err(sendErr).Int("attempts", attempt).Msg("send retries exhausted")
			return domain.Rejected(domain.RejectUnavailable, attempt), nil
		}

		delay := s.cfg.Backoff.Delay(attempt, nil)
		if s.clock.Now().Add(delay).After(deadline) {
			return domain.TimedOut(attempt), nil
		}

		log.Debug().Err(sendErr).Dur("backoff", delay).Int("attempt", attempt).Msg("send failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return domain.TimedOut(attempt), nil
			}
			return domain.Outcome{}, ctx.Err()
		}
	}

	return domain.Rejected(domain.RejectUnavailable, s.cfg.MaxRetry), nil
}

// classifySendError maps a transport error onto a reject reason. Anything
// that is not an explicitly non-retryable SendFailure counts as a transient
// transport fault.
func classifySendError(err error) (domain.RejectReason, bool) {
	var failure *ports.SendFailure
	if errors.As(err, &failure) {
		switch failure.Code {
		case ports.SendFailInvalidRecipient:
			return domain.RejectInvalidRecipient, false
		case ports.SendFailRejected:
			return domain.RejectRemoteRejected, false
		}
	}
	return domain.RejectUnavailable, true
}
