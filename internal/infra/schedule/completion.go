// Package schedule runs the background jobs that advance rental orders
// without user interaction.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"sharetools/internal/app/commands"
	rentalhandlers "sharetools/internal/app/handlers/rental"
)

// CompletionWorker periodically completes active orders whose rental
// period has ended.
type CompletionWorker struct {
	Bus      commands.Bus
	Interval time.Duration
	Logger   *slog.Logger
}

func (w *CompletionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *CompletionWorker) tick(ctx context.Context) {
	result, err := commands.Dispatch[rentalhandlers.CompleteDueCommand, *rentalhandlers.CompleteDueResult](
		ctx, w.Bus, rentalhandlers.CompleteDueCommand{AsOf: time.Now().UTC()})
	if err != nil {
		if w.Logger != nil {
			w.Logger.ErrorContext(ctx, "completion sweep failed", "error", err)
		}
		return
	}
	if result != nil && result.Completed > 0 && w.Logger != nil {
		w.Logger.InfoContext(ctx, "completed due rentals", "count", result.Completed)
	}
}

func (w *CompletionWorker) interval() time.Duration {
	if w.Interval <= 0 {
		return time.Hour
	}
	return w.Interval
}
