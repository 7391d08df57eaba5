package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a settable clock for deterministic windows.
func fakeClock(s *OpStats) *time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return &now
}

func TestSnapshotPercentiles(t *testing.T) {
	s := New(time.Hour)
	for _, us := range []int64{100, 200, 300, 400, 500} {
		s.Record("split", time.Duration(us)*time.Microsecond, false)
	}

	snap := s.Snapshot()["split"]
	assert.Equal(t, 5, snap.Count)
	assert.Equal(t, int64(100), snap.MinUs)
	assert.Equal(t, int64(500), snap.MaxUs)
	assert.InDelta(t, 300, snap.AvgUs, 1e-9)
	assert.InDelta(t, 300, snap.P50Us, 1e-9)
	assert.InDelta(t, 480, snap.P95Us, 1e-9)
	assert.InDelta(t, 496, snap.P99Us, 1e-9)
}

func TestSnapshotSeparatesOperations(t *testing.T) {
	s := New(time.Hour)
	s.Record("classify", 10*time.Microsecond, false)
	s.Record("segment", 20*time.Microsecond, true)
	s.Record("segment", 40*time.Microsecond, false)

	snaps := s.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, 1, snaps["classify"].Count)
	assert.Equal(t, 2, snaps["segment"].Count)
	assert.Equal(t, 1, snaps["segment"].Failures)
}

func TestPrunesExpiredSamples(t *testing.T) {
	s := New(10 * time.Millisecond)
	now := fakeClock(s)

	s.Record("items", time.Millisecond, false)
	*now = now.Add(25 * time.Millisecond)
	assert.Empty(t, s.Snapshot())

	s.Record("items", 2*time.Millisecond, false)
	snap := s.Snapshot()["items"]
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, int64(2000), snap.MinUs)
	assert.Equal(t, int64(2000), snap.MaxUs)
}

func TestRecordClampsNegativeDuration(t *testing.T) {
	s := New(time.Hour)
	s.Record("split", -time.Second, false)

	snap := s.Snapshot()["split"]
	assert.Equal(t, 1, snap.Count)
	assert.Zero(t, snap.MaxUs)
}

func TestTrack(t *testing.T) {
	s := New(time.Hour)
	now := fakeClock(s)

	done := s.Track("extract")
	*now = now.Add(3 * time.Millisecond)
	done(errors.New("unsupported file extension"))

	snap := s.Snapshot()["extract"]
	assert.Equal(t, 1, snap.Failures)
	assert.Equal(t, int64(3000), snap.MinUs)
}

func TestNewDefaultsWindow(t *testing.T) {
	assert.Equal(t, time.Hour, New(0).maxAge)
}
