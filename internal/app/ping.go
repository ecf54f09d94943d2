package app

import (
	"context"
	"time"

	"bgproc/api/bgprocv1"
)

// PingResult is the daemon's health reply.
type PingResult struct {
	Message string
	Total   int
	Counts  map[string]int
}

// Ping contacts the daemon and returns its health response.
func (a *App) Ping(ctx context.Context, timeout time.Duration) (PingResult, error) {
	var result PingResult
	err := a.withClient(ctx, timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.Ping(ctx, &bgprocv1.PingRequest{})
		if err != nil {
			return rpcError("ping", err)
		}
		result.Message = resp.GetOk()
		result.Total = int(resp.Total)
		result.Counts = make(map[string]int, len(resp.Counts))
		for k, v := range resp.Counts {
			result.Counts[k] = int(v)
		}
		return nil
	})
	return result, err
}
