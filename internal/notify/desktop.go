package notify

import (
	"context"
	"fmt"
	"os/exec"
)

// execCommand is swapped out in tests.
var execCommand = exec.CommandContext

// Desktop shows messages through notify-send. Delivery errors are returned
// to the caller, which logs them.
type Desktop struct {
	enabled bool
	appName string
}

func NewDesktop(enabled bool) *Desktop {
	return &Desktop{enabled: enabled, appName: "bgproc"}
}

func (d *Desktop) Notify(ctx context.Context, sessionID, text string) error {
	if !d.enabled {
		return nil
	}
	body := text
	if sessionID != "" {
		body = fmt.Sprintf("Session: %s\n%s", truncateSessionID(sessionID), text)
	}
	cmd := execCommand(ctx, "notify-send", "--app-name", d.appName, d.appName, body)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("notify-send: %w (%s)", err, out)
	}
	return nil
}

func truncateSessionID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12] + "..."
}
