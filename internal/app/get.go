package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"bgproc/api/bgprocv1"
)

// Get fetches one process with its recent output.
func (a *App) Get(ctx context.Context, id string, timeout time.Duration) (Process, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Process{}, errors.New("id must be provided")
	}

	var proc Process
	err := a.withClient(ctx, timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.Get(ctx, &bgprocv1.GetRequest{Id: id})
		if err != nil {
			return rpcError("get", err)
		}
		if resp.GetProcess() == nil {
			return errors.New("daemon returned an empty process")
		}
		proc = procFromProto(resp.GetProcess())
		return nil
	})
	return proc, err
}
