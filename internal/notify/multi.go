package notify

import (
	"context"
	"errors"

	"bgproc/internal/registry"
)

// Multi delivers every message to all of its notifiers.
type Multi []registry.Notifier

func (m Multi) Notify(ctx context.Context, sessionID, text string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, sessionID, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Func adapts a plain function to registry.Notifier.
type Func func(ctx context.Context, sessionID, text string) error

func (f Func) Notify(ctx context.Context, sessionID, text string) error {
	return f(ctx, sessionID, text)
}
