package domain

import "time"

// SendRequest is one outbound message obligation. Requests live only in
// memory: a crash loses in-flight sends and the caller's own scheduling is
// expected to retry from its business records.
type SendRequest struct {
	ID         string
	Recipient  string
	Body       string
	CreatedAt  time.Time
	RetryCount int
}

// Deadline returns the instant after which the request must resolve as
// timed out regardless of remaining retries.
func (r SendRequest) Deadline(budget time.Duration) time.Time {
	return r.CreatedAt.Add(budget)
}
