package mcp

import (
	"context"
	"os"
	"time"

	"csvdesk/internal/logging"
)

// ParentPollInterval is how often WatchParent checks the parent PID.
var ParentPollInterval = 2 * time.Second

// WatchParent calls cancel when the parent process goes away (the parent PID
// changes), so a stdio server does not outlive the client that spawned it.
// It never reads stdin: the stdio transport owns it.
//
// The goroutine exits when ctx is done or the parent is gone.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	ppid := os.Getppid()
	logger := logging.New("mcp")
	interval := ParentPollInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if os.Getppid() != ppid {
					logger.Warn("parent process exited, shutting down", "ppid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
