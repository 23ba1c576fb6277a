package services

import (
	"context"
	"log/slog"
	"taskmarket/contract"
	"taskmarket/domain"
	"taskmarket/domain/event"
	"taskmarket/errors"
	"time"
)

// Options are the knobs shared by the services.
type Options struct {
	StoreTimeout       time.Duration
	MaxConflictRetries int
	ReactivationWindow time.Duration
}

func DefaultOptions() Options {
	return Options{
		StoreTimeout:       10 * time.Second,
		MaxConflictRetries: 5,
		ReactivationWindow: domain.DefaultReactivationWindow,
	}
}

// censor is the part of the moderator the services rely on.
type censor interface {
	Censor(original string) (string, []string)
}

// call runs one store operation under the store timeout.
// An expired deadline is reported as a transient store failure.
func call[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := fn(callCtx)
	if err != nil && callCtx.Err() != nil && !errors.Is(err, errors.ErrValidation) {
		return res, errors.Transient(err)
	}
	return res, err
}

func exec(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	_, err := call(ctx, timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// retryOnConflict replays a read-modify-write while the conditional write
// loses against a concurrent one, at most retries extra times.
func retryOnConflict(ctx context.Context, log *slog.Logger, retries int, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = fn(ctx)
		if !errors.Is(err, errors.ErrConflict) {
			return err
		}
		log.Debug("Version conflict, replaying", "attempt", attempt+1)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Transient(ctxErr)
		}
	}
	return err
}

// publish hands the event to every sink. Sinks keep derived data, so a
// failing sink is logged and never fails the operation.
func publish(ctx context.Context, log *slog.Logger, sinks []contract.EventSink, e event.DomainEvent) {
	for _, sink := range sinks {
		if err := sink.Consume(ctx, e); err != nil {
			log.Warn("Event sink failed", "post_id", e.PostID(), "error", err)
		}
	}
}
