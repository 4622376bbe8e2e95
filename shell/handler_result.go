package shell

import "time"

// HandlerResult is what a command handler reports besides its error.
type HandlerResult struct {
	// Idempotent is a business outcome: the command changed nothing because its effect was already there.
	Idempotent bool

	// RetryAttempts counts all attempts, 1 means no retry.
	RetryAttempts int

	// TotalRetryDelay is the time spent in backoff, without the attempts themselves.
	TotalRetryDelay time.Duration

	// LastErrorType is one of none, concurrency_conflict, context_canceled, context_deadline_exceeded, other.
	LastErrorType string

	// RetriesExhausted is true when the last attempt still hit a concurrency conflict.
	RetriesExhausted bool
}

func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return newHandlerResult(false, retryMetrics)
}

func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return newHandlerResult(true, retryMetrics)
}

// NewErrorResult keeps the retry metadata of a failed command for the observability wrapper.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newHandlerResult(false, retryMetrics)
}

func newHandlerResult(idempotent bool, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
