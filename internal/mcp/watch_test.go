package mcp_test

import (
	"context"
	"testing"
	"time"

	mcpserver "csvdesk/internal/mcp"
)

func TestWatchParent_StopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mcpserver.WatchParent(ctx, cancel)
	cancel()

	// The goroutine must neither panic nor block after cancel.
	time.Sleep(50 * time.Millisecond)
}

func TestWatchParent_LeavesLiveParentAlone(t *testing.T) {
	old := mcpserver.ParentPollInterval
	mcpserver.ParentPollInterval = 5 * time.Millisecond
	t.Cleanup(func() { mcpserver.ParentPollInterval = old })

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	watched, cancel := context.WithCancel(ctx)
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)
	time.Sleep(50 * time.Millisecond)

	if watched.Err() != nil {
		t.Fatal("cancel was called while the parent is still alive")
	}
}
