package transport_test

import (
	"context"
	"testing"

	"github.com/revobtp/revo-server/internal/mirror"
	"github.com/revobtp/revo-server/internal/remote"
	"github.com/revobtp/revo-server/internal/seed"
	"github.com/revobtp/revo-server/internal/store"
	"github.com/revobtp/revo-server/internal/transport"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *transport.Registry {
	t.Helper()
	db, err := mirror.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	ctx, cancel := context.WithCancel(context.Background())
	r := transport.NewRegistry(ctx, remote.NewMemory(), db, nil, testLogger())
	t.Cleanup(func() {
		r.Close()
		cancel()
		db.Close()
	})
	return r
}

func TestRegistryReusesWorkspacePerTenant(t *testing.T) {
	r := newTestRegistry(t)
	demo := store.NewDemoTenant(seed.DemoCompanyID)

	ws := r.Workspace(demo)
	require.Same(t, ws, r.Workspace(demo))
	require.Len(t, ws.Sites.Items(), len(seed.Sites()))

	other := r.Workspace(store.NewRemoteTenant("acme", "u1"))
	require.NotSame(t, ws, other)
	require.Empty(t, other.Sites.Items())
}

func TestRegistryEvict(t *testing.T) {
	r := newTestRegistry(t)
	demo := store.NewDemoTenant(seed.DemoCompanyID)

	ws := r.Workspace(demo)
	ch, cancel := ws.Sites.Watch()
	defer cancel()

	r.Evict(demo)

	// Eviction closed the workspace's stores, so the watcher ends.
	drainClosed(t, ch)
	require.NotSame(t, ws, r.Workspace(demo))
}

func drainClosed[T store.Entity](t *testing.T, ch <-chan store.Snapshot[T]) {
	t.Helper()
	for range ch {
	}
}
