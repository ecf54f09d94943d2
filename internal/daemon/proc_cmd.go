package daemon

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"bgproc/internal/osproc"
)

// looksLikeDaemon guards against signalling an unrelated process that
// reused the pid recorded in a stale pid file.
func looksLikeDaemon(pid int) bool {
	if !osproc.Alive(pid) {
		return false
	}
	cmd := commandLine(pid)
	if cmd == "" {
		// unknown; trust the pid file
		return true
	}
	return strings.Contains(cmd, "bgproc")
}

// commandLine fetches the command line of pid, or "" if it cannot be read.
func commandLine(pid int) string {
	if cmd, err := readProcCmdline(pid); err == nil && cmd != "" {
		return cmd
	}
	if cmd, err := readPsCommand(pid); err == nil {
		return cmd
	}
	return ""
}

func readProcCmdline(pid int) (string, error) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "cmdline"))
	if err != nil {
		return "", err
	}
	parts := bytes.Split(data, []byte{0})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) > 0 {
			out = append(out, string(part))
		}
	}
	return strings.Join(out, " "), nil
}

func readPsCommand(pid int) (string, error) {
	output, err := exec.Command("ps", "-o", "command=", "-p", strconv.Itoa(pid)).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
