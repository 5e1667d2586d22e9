package core

// DecisionResult is the outcome of a decide function.
//
// Construct it only with IdempotentDecision, SuccessDecision or ErrorDecision.
type DecisionResult[T any] struct {
	Outcome string // "idempotent", "success", or "error"
	Value   T      // zero for idempotent and error decisions
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision means the requested state is already in place, so there is nothing to persist.
func IdempotentDecision[T any]() DecisionResult[T] {
	return DecisionResult[T]{Outcome: idempotentOutcome}
}

// SuccessDecision carries the new state to persist.
func SuccessDecision[T any](value T) DecisionResult[T] {
	return DecisionResult[T]{Outcome: successOutcome, Value: value}
}

// ErrorDecision carries the business rule violation. Nothing may be persisted.
func ErrorDecision[T any](err error) DecisionResult[T] {
	return DecisionResult[T]{Outcome: errorOutcome, Err: err}
}

// IsIdempotent reports whether there is no state change.
func (r DecisionResult[T]) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the violation if there is one, otherwise nil.
func (r DecisionResult[T]) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
