package scene

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *File, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, nil, func(f *File) {
			select {
			case changes <- f:
			default:
			}
		})
	}()

	updated := sampleScene + "  - center: [1, 0, -1]\n    radius: 0.25\n    color: [0, 0, 1]\n"

	// The watcher may not be registered yet on the first write
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case f := <-changes:
			require.Len(t, f.Spheres, 3)
			cancel()
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(updated), 0644))
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, Watch(ctx, path, nil, func(*File) {}))
}
