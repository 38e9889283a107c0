package domain

type OutcomeKind string

const (
	OutcomeDelivered OutcomeKind = "delivered"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeTimedOut  OutcomeKind = "timed_out"
)

type RejectReason string

const (
	RejectNotReady         RejectReason = "not_ready"
	RejectInvalidRecipient RejectReason = "invalid_recipient"
	RejectEmptyBody        RejectReason = "empty_body"
	RejectConnectionLost   RejectReason = "connection_lost"
	RejectRemoteRejected   RejectReason = "remote_rejected"
	RejectUnavailable      RejectReason = "unavailable"
)

// Outcome is the terminal result of one send request.
type Outcome struct {
	Kind OutcomeKind
	// Reason is set only when Kind == OutcomeRejected.
	Reason RejectReason
	// Attempts is the number of transport send calls actually made.
	Attempts int
}

func Delivered(attempts int) Outcome {
	return Outcome{Kind: OutcomeDelivered, Attempts: attempts}
}

func Rejected(reason RejectReason, attempts int) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason, Attempts: attempts}
}

func TimedOut(attempts int) Outcome {
	return Outcome{Kind: OutcomeTimedOut, Attempts: attempts}
}

func (o Outcome) Delivered() bool {
	return o.Kind == OutcomeDelivered
}

func (o Outcome) String() string {
	if o.Kind == OutcomeRejected {
		return string(o.Kind) + "(" + string(o.Reason) + ")"
	}
	return string(o.Kind)
}
