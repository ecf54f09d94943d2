package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"bgproc/api/bgprocv1"
)

// RunParams describes a command for the daemon to launch.
type RunParams struct {
	Command string
	Name    string
	Tags    []string
	Global  bool
	Timeout time.Duration
}

// Run asks the daemon to start params.Command in the controller's session
// and returns the new process id.
func (a *App) Run(ctx context.Context, params RunParams) (string, error) {
	command := strings.TrimSpace(params.Command)
	if command == "" {
		return "", errors.New("command must not be empty")
	}

	var id string
	err := a.withClient(ctx, params.Timeout, func(ctx context.Context, client bgprocv1.BgProcClient) error {
		resp, err := client.Create(ctx, &bgprocv1.CreateRequest{
			Command:   command,
			Name:      strings.TrimSpace(params.Name),
			Tags:      append([]string(nil), params.Tags...),
			SessionId: a.session,
			Global:    params.Global,
		})
		if err != nil {
			return rpcError("create", err)
		}
		id = resp.GetId()
		return nil
	})
	return id, err
}
