package shell

import (
	"context"
)

// Command is implemented by every command type. CommandType labels logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query is implemented by every query type. QueryType labels logs, metrics and spans.
type Query interface {
	QueryType() string
}

// CommandHandler processes a command and returns its result together with execution metadata.
// Implementations contain business orchestration only; observability is added by wrappers.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, command C) (R, HandlerResult, error)
}

// QueryHandler processes a query and returns its projection.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
