package app

import (
	"context"
	"time"

	"bgproc/api/bgprocv1"
)

// ListParams defines filters and timeout.
type ListParams struct {
	Filters ListFilters
	Timeout time.Duration
}

// List fetches registry entries matching the provided filters.
func (a *App) List(ctx context.Context, params ListParams) ([]Process, error) {
	req, err := a.buildListRequest(params.Filters)
	if err != nil {
		return nil, err
	}

	var procs []Process
	err = a.withClient(ctx, params.Timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.List(ctx, req)
		if err != nil {
			return rpcError("list", err)
		}
		procs = make([]Process, 0, len(resp.GetProcesses()))
		for _, p := range resp.GetProcesses() {
			procs = append(procs, procFromProto(p))
		}
		return nil
	})
	return procs, err
}
