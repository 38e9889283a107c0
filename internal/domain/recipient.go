package domain

import "strings"

const (
	minRecipientDigits = 8
	maxRecipientDigits = 15
)

// NormalizeRecipient strips common separators from a phone-style address and
// validates the result as an international number. The leading "+" is never
// inferred: an address without a country-code marker is rejected outright
// rather than risk misrouting a message.
func NormalizeRecipient(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch r {
		case ' ', '-', '.', '(', ')', '\t':
			continue
		}
		b.WriteRune(r)
	}

	normalized := b.String()
	if !strings.HasPrefix(normalized, "+") {
		return "", ErrInvalidRecipient
	}

	digits := normalized[1:]
	if len(digits) < minRecipientDigits || len(digits) > maxRecipientDigits {
		return "", ErrInvalidRecipient
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ErrInvalidRecipient
		}
	}

	return normalized, nil
}
