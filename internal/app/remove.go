package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bgproc/api/bgprocv1"
)

// RemoveParams configures rm command semantics.
type RemoveParams struct {
	IDs     []string
	Timeout time.Duration
}

// RemoveResult reports the registry entries removed.
type RemoveResult struct {
	Removed []string
	Missing []string
}

// Remove terminates (if still running) and forgets the given processes.
// Unknown ids are reported in Missing rather than failing the call.
func (a *App) Remove(ctx context.Context, params RemoveParams) (RemoveResult, error) {
	var result RemoveResult
	ids := make([]string, 0, len(params.IDs))
	for _, id := range params.IDs {
		if clean := strings.TrimSpace(id); clean != "" {
			ids = append(ids, clean)
		}
	}
	if len(ids) == 0 {
		return result, errors.New("provide at least one process id")
	}

	err := a.withClient(ctx, params.Timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		for _, id := range ids {
			if _, err := client.Remove(ctx, &bgprocv1.RemoveRequest{Id: id}); err != nil {
				err = rpcError("remove", err)
				if errors.Is(err, ErrNotFound) {
					result.Missing = append(result.Missing, id)
					continue
				}
				return fmt.Errorf("remove id %s failed: %w", id, err)
			}
			result.Removed = append(result.Removed, id)
		}
		return nil
	})
	return result, err
}
