package domain

import "errors"

var (
	ErrSessionFailed         = errors.New("session failed: reset required before reconnecting")
	ErrCredentialsNotFound   = errors.New("credentials not found")
	ErrSessionRecordNotFound = errors.New("session record not found")
	ErrInvalidRecipient      = errors.New("invalid recipient address")
	ErrEmptyBody             = errors.New("message body is empty")
	ErrNotInitialized        = errors.New("messaging subsystem not initialized")
)
