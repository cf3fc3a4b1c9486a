package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotEvent(t *testing.T) {
	now := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	tbl := testTable(t)
	sel := Selection{State: "TX", Metro: "Austin, TX", Date: tbl.Dates.Latest(), Neighborhoods: []string{"Mueller"}}
	snap, err := TakeSnapshot(tbl, sel.State, sel.Metro, sel.Date, RoundNearest)
	require.NoError(t, err)

	ev := NewSnapshotEvent("sess-1", sel, snap, 2)

	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, now, ev.GeneratedAt)
	assert.Equal(t, 2, ev.Rows)
	assert.Equal(t, 2, ev.Warnings)
	require.NotNil(t, ev.Mean)
	assert.Equal(t, 566000.5, *ev.Mean)
	assert.Equal(t, "TX|Austin, TX|06-30-2023", ev.Key())
}

func TestNewSnapshotEvent_EmptySnapshotHasNoMean(t *testing.T) {
	ev := NewSnapshotEvent("sess-1", Selection{State: "GA", Metro: "X"}, Snapshot{State: "GA", Metro: "X"}, 0)
	assert.Nil(t, ev.Mean)
	assert.Equal(t, 0, ev.Rows)
}
