package remote_test

import (
	"context"
	"testing"

	"github.com/revobtp/revo-server/internal/remote"
	"github.com/stretchr/testify/require"
)

func TestMemory_SubscribeDeliversInitialAndUpdates(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemory()

	var snaps [][]remote.Document
	stop, err := m.Subscribe(ctx, "sites", "c1", func(docs []remote.Document) {
		snaps = append(snaps, docs)
	}, func(error) {})
	require.NoError(t, err)
	defer stop()

	require.Len(t, snaps, 1)
	require.Empty(t, snaps[0])

	id, err := m.Create(ctx, "sites", remote.Document{"name": "Chantier A", "companyId": "c1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, snaps, 2)
	require.Len(t, snaps[1], 1)
	require.Equal(t, "Chantier A", snaps[1][0]["name"])
	require.Equal(t, id, snaps[1][0]["id"])
}

func TestMemory_SubscriptionFilteredByCompany(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemory()

	var latest []remote.Document
	stop, err := m.Subscribe(ctx, "sites", "c1", func(docs []remote.Document) {
		latest = docs
	}, func(error) {})
	require.NoError(t, err)
	defer stop()

	_, err = m.Create(ctx, "sites", remote.Document{"name": "mine", "companyId": "c1"})
	require.NoError(t, err)
	_, err = m.Create(ctx, "sites", remote.Document{"name": "theirs", "companyId": "c2"})
	require.NoError(t, err)

	require.Len(t, latest, 1)
	require.Equal(t, "mine", latest[0]["name"])
}

func TestMemory_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemory()

	id, err := m.Create(ctx, "sites", remote.Document{"name": "before", "budget": 100.0, "companyId": "c1"})
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, "sites", id, remote.Document{"name": "after"}))

	var latest []remote.Document
	stop, err := m.Subscribe(ctx, "sites", "c1", func(docs []remote.Document) { latest = docs }, func(error) {})
	require.NoError(t, err)
	defer stop()

	require.Len(t, latest, 1)
	require.Equal(t, "after", latest[0]["name"])
	require.Equal(t, 100.0, latest[0]["budget"])
}

func TestMemory_UpdateMissingIsClassifiedNotFound(t *testing.T) {
	m := remote.NewMemory()

	err := m.Update(context.Background(), "sites", "nope", remote.Document{"name": "x"})
	require.Error(t, err)
	code, ok := remote.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, remote.CodeNotFound, code)
	require.True(t, remote.Recoverable(err))
}

func TestMemory_StopEndsDelivery(t *testing.T) {
	ctx := context.Background()
	m := remote.NewMemory()

	calls := 0
	stop, err := m.Subscribe(ctx, "sites", "c1", func([]remote.Document) { calls++ }, func(error) {})
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	stop()
	_, err = m.Create(ctx, "sites", remote.Document{"companyId": "c1"})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestRecoverable_UnclassifiedIsNot(t *testing.T) {
	require.False(t, remote.Recoverable(context.DeadlineExceeded))
	require.True(t, remote.Recoverable(remote.Errorf(remote.CodePermissionDenied, "rules")))
	require.True(t, remote.Recoverable(remote.Errorf(remote.CodeSetupFailure, "no client")))
}
