package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bgproc/api/bgprocv1"
)

// KillParams configures kill command semantics. A non-empty ID wins over
// Filters.
type KillParams struct {
	ID              string
	Filters         ListFilters
	AllowAll        bool
	Timeout         time.Duration
	RequireSelector bool
}

// KillResult aggregates the command outcome.
type KillResult struct {
	IDs     []string
	Message string
}

// Kill terminates running processes selected by id or filters.
func (a *App) Kill(ctx context.Context, params KillParams) (KillResult, error) {
	var result KillResult
	id := strings.TrimSpace(params.ID)
	if id == "" && params.RequireSelector && !params.AllowAll && params.Filters.empty() {
		return result, errors.New("provide at least one selector (--id/--tag/--status) or pass --all")
	}

	req := &bgprocv1.TerminateRequest{Id: id}
	if id == "" {
		status, tags, err := params.Filters.validate()
		if err != nil {
			return result, err
		}
		req.SessionId = a.sessionFor(params.Filters)
		req.Status = status
		req.Tags = tags
	}

	err := a.withClient(ctx, params.Timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.Terminate(ctx, req)
		if err != nil {
			return rpcError("terminate", err)
		}
		result.IDs = append([]string(nil), resp.GetIds()...)
		return nil
	})
	if err != nil {
		return result, err
	}

	if len(result.IDs) == 0 {
		result.Message = "No running processes match the provided selectors"
	} else {
		result.Message = fmt.Sprintf("Terminated %d process(es): %s", len(result.IDs), joinSampleIDs(result.IDs))
	}
	return result, nil
}
