package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mediloop/chatline/internal/domain"
	"github.com/mediloop/chatline/internal/ports"
)

const (
	storeDirMode  = 0o700
	blobFileMode  = 0o600
	blobExtension = ".cred"
)

// Store keeps one opaque credential blob per account under an
// application-private directory. Writes go through a temp file and rename so
// a crash mid-write leaves the previous blob intact.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Get(ctx context.Context, accountID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.pathForAccount(accountID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("read credentials for %q: %w", accountID, err)
	}

	return data, nil
}

func (s *Store) Put(ctx context.Context, accountID string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForAccount(accountID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cred-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp credential file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(blobFileMode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp credential file: %w", err)
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write credentials for %q: %w", accountID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp credential file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("commit credentials for %q: %w", accountID, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForAccount(accountID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete credentials for %q: %w", accountID, err)
	}

	return nil
}

func (s *Store) pathForAccount(accountID string) (string, error) {
	trimmed := strings.TrimSpace(accountID)
	if trimmed == "" {
		return "", errors.New("account id is empty")
	}

	cleaned := filepath.Clean(trimmed)
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." || strings.ContainsRune(cleaned, filepath.Separator) {
		return "", fmt.Errorf("invalid account id %q", accountID)
	}

	return filepath.Join(s.root, cleaned+blobExtension), nil
}
