package ports

import "context"

// CredentialStore persists the transport's opaque credential blob, keyed by
// account identifier. Implementations must return the exact bytes written.
type CredentialStore interface {
	// Get returns domain.ErrCredentialsNotFound when no blob is stored.
	Get(ctx context.Context, accountID string) ([]byte, error)
	Put(ctx context.Context, accountID string, blob []byte) error
	// Delete is idempotent: deleting an absent blob is not an error.
	Delete(ctx context.Context, accountID string) error
}
