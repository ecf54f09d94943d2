package app

import "strings"

// DefaultSession mirrors the daemon's fallback session.
const DefaultSession = "default"

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to the optional daemon config file.
	ConfigPath string
	// SessionID scopes run, list, kill and notices. Empty means DefaultSession.
	SessionID string
}

// App exposes high-level operations that the CLI/TUI can reuse.
type App struct {
	cfgPath string
	session string
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	session := strings.TrimSpace(opts.SessionID)
	if session == "" {
		session = DefaultSession
	}
	return &App{
		cfgPath: opts.ConfigPath,
		session: session,
	}
}

// ConfigPath returns the configured config file path (if any).
func (a *App) ConfigPath() string {
	return a.cfgPath
}

// Session returns the session this controller acts for.
func (a *App) Session() string {
	return a.session
}
