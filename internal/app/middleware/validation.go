package middleware

import (
	"context"

	"sharetools/internal/app/commands"
	"sharetools/internal/app/queries"
)

// Validatable is implemented by commands and queries that carry their own
// structural validation.
type Validatable interface {
	Validate() error
}

// SelfValidation rejects commands that fail their own Validate before any
// transaction is opened.
func SelfValidation() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if v, ok := cmd.(Validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return nextFn(ctx, cmd)
		})
	}
}

// QuerySelfValidation is the query-side counterpart of SelfValidation.
func QuerySelfValidation() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		nextFn := wrapQuery(next)
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if v, ok := q.(Validatable); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return nextFn(ctx, q)
		})
	}
}
