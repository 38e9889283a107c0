package ports

import (
	"context"

	"github.com/mediloop/chatline/internal/domain"
)

type SessionRecordRepository interface {
	// Get returns domain.ErrSessionRecordNotFound when no record exists.
	Get(ctx context.Context, accountID string) (domain.SessionRecord, error)
	Save(ctx context.Context, record domain.SessionRecord) error
}
