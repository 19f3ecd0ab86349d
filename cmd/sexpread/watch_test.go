package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.sexp")
	require.NoError(t, os.WriteFile(path, []byte("(1 2)\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, &out, path, nil)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "(1 2)\n")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("(3 . 4)\n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "(3 . 4)\n")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("(3 . \n"), 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "error: ")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestRunWatch_missingFile(t *testing.T) {
	err := runWatch(context.Background(), &syncBuffer{}, filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestSettle(t *testing.T) {
	events := make(chan fsnotify.Event, 3)
	events <- fsnotify.Event{Name: "a", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "a", Op: fsnotify.Write}
	assert.True(t, settle(events))
	assert.Empty(t, events)

	events <- fsnotify.Event{Name: "a", Op: fsnotify.Write}
	close(events)
	done := make(chan bool, 1)
	go func() { done <- settle(events) }()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("settle kept draining a closed channel")
	}
}
