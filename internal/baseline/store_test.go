// internal/baseline/store_test.go
package baseline

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saadi-js/SNA/internal/snapshot"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "baselines.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot() snapshot.SystemSnapshot {
	return snapshot.SystemSnapshot{
		Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		CPU: snapshot.CPUStat{
			Load1:        snapshot.KnownGauge(0.8),
			Cores:        snapshot.KnownCount(4),
			UsagePercent: snapshot.KnownPercent(35),
		},
		Memory: snapshot.MemoryStat{
			TotalMB:      snapshot.KnownCount(8192),
			UsedMB:       snapshot.KnownCount(4096),
			AvailableMB:  snapshot.KnownCount(4096),
			UsagePercent: snapshot.KnownPercent(50),
		},
		Disk: snapshot.DiskStat{
			UsagePercent: snapshot.KnownPercent(50),
			// Byte counts deliberately unknown: round-trip must keep them so.
		},
		Services: snapshot.ServiceStat{
			ActiveCount: snapshot.KnownCount(2),
			ActiveNames: []string{"cron", "sshd"},
		},
		SSH: snapshot.SSHStat{
			ConfigExists:        snapshot.KnownFlag(true),
			RootLoginEnabled:    snapshot.KnownFlag(false),
			PasswordAuthEnabled: snapshot.KnownFlag(false),
		},
		Logs: snapshot.LogStat{
			AuthFailureCount: snapshot.KnownCount(0),
			KernelErrorCount: snapshot.KnownCount(0),
		},
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	store := testStore(t)
	snap := sampleSnapshot()

	saved, err := store.Save("b1", snap)
	require.NoError(t, err)
	assert.Equal(t, "b1", saved.Name)

	got, err := store.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, snap, got.Snapshot, "snapshot must round-trip field for field")
	assert.False(t, got.Snapshot.Disk.TotalBytes.Known, "unknown leaves must stay unknown")
}

func TestSaveAutoName(t *testing.T) {
	store := testStore(t)

	b, err := store.Save("", sampleSnapshot())
	require.NoError(t, err)
	assert.Regexp(t, `^baseline_\d{8}_\d{6}$`, b.Name)

	_, err = store.Get(b.Name)
	assert.NoError(t, err)
}

func TestSaveOverwrites(t *testing.T) {
	store := testStore(t)

	first := sampleSnapshot()
	_, err := store.Save("b1", first)
	require.NoError(t, err)

	second := first
	second.Disk.UsagePercent = snapshot.KnownPercent(96)
	_, err = store.Save("b1", second)
	require.NoError(t, err)

	got, err := store.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, 96.0, got.Snapshot.Disk.UsagePercent.Value)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, names, "overwrite must not duplicate the name")
}

func TestListCreationOrder(t *testing.T) {
	store := testStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := store.Save(name, sampleSnapshot())
		require.NoError(t, err)
	}
	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestGetNotFoundLeavesStoreIntact(t *testing.T) {
	store := testStore(t)
	_, err := store.Save("b1", sampleSnapshot())
	require.NoError(t, err)

	_, err = store.Get("nonexistent")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "nonexistent")

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, names, "a failed lookup must not affect stored baselines")
}

func TestDelete(t *testing.T) {
	store := testStore(t)
	_, err := store.Save("b1", sampleSnapshot())
	require.NoError(t, err)

	require.NoError(t, store.Delete("b1"))
	_, err = store.Get("b1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete("b1"), ErrNotFound)
}
