package toml

import (
	"fmt"
	"time"

	"github.com/mediloop/chatline/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Sessions []sessionSchema `toml:"sessions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported sessions schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	AccountID    string `toml:"account_id"`
	Label        string `toml:"label,omitempty"`
	Address      string `toml:"address,omitempty"`
	LastPairedAt string `toml:"last_paired_at,omitempty"`
	LastReadyAt  string `toml:"last_ready_at,omitempty"`
}

func toSchema(record domain.SessionRecord) sessionSchema {
	return sessionSchema{
		AccountID:    record.AccountID,
		Label:        record.Label,
		Address:      record.Address,
		LastPairedAt: formatTime(record.LastPairedAt),
		LastReadyAt:  formatTime(record.LastReadyAt),
	}
}

func fromSchema(entry sessionSchema) domain.SessionRecord {
	return domain.SessionRecord{
		AccountID:    entry.AccountID,
		Label:        entry.Label,
		Address:      entry.Address,
		LastPairedAt: parseTime(entry.LastPairedAt),
		LastReadyAt:  parseTime(entry.LastReadyAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
