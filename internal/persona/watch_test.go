package persona

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "personas.yaml")

	initial := "- id: one\n  name: One\n  fallbacks: [a, b, c]\n"
	require.NoError(t, os.WriteFile(path, []byte(initial), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	updated := "- id: two\n  name: Two\n  fallbacks: [a, b, c]\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := c.Find("two"); ok {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("catalog was not reloaded after file change")
}

func TestWatcher_StartFailureLeavesStopSafe(t *testing.T) {
	defer goleak.VerifyNone(t)

	// A path whose directory does not exist makes the watch registration fail.
	path := filepath.Join(t.TempDir(), "missing", "personas.yaml")
	w, err := NewWatcher(path, Default())
	require.NoError(t, err)

	require.Error(t, w.Start(context.Background()))

	// Stop must return immediately rather than wait for a loop that never ran.
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked after a failed Start")
	}
}

func TestWatcher_BadEditKeepsPreviousCatalog(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "personas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: keep\n  name: Keep\n  fallbacks: [a]\n"), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("not: [valid personas\n"), 0644))
	time.Sleep(1 * time.Second)
	w.Stop()

	_, ok := c.Find("keep")
	require.True(t, ok, "previous catalog should survive a bad edit")
}
