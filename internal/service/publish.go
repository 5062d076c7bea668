package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
)

const sideEffectTimeout = 5 * time.Second

// afterCommit runs fn detached from request cancellation. Failures are
// logged and never reach the caller since the write has already committed.
func afterCommit(ctx context.Context, what string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		logging.FromContext(ctx).Warn("side_effect_failed", "what", what, "error", err)
	}
}

func publish(ctx context.Context, pub events.Publisher, typ string, id uint, data any) {
	if pub == nil {
		return
	}
	afterCommit(ctx, typ, func(ctx context.Context) error {
		return pub.Publish(ctx, events.Event{
			Type: typ,
			Key:  strconv.FormatUint(uint64(id), 10),
			At:   time.Now().UTC(),
			Data: data,
		})
	})
}
