package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndRecentRuns(t *testing.T) {
	db, err := Open("", "file:runs?mode=memory&cache=shared")
	require.NoError(t, err)

	seed := int64(3)
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	runs := []GenerationRun{
		{Profile: "feasible", Kind: "volunteers", Format: "legacy", Rows: 121, CreatedAt: base},
		{Profile: "feasible", Kind: "shifts", Format: "legacy", Rows: 150, CreatedAt: base.Add(time.Minute)},
		{Profile: "impossible", Kind: "shifts", Format: "api", Rows: 150, Seed: &seed, Source: "http", CreatedAt: base.Add(2 * time.Minute)},
	}
	require.NoError(t, RecordRuns(db, runs))
	require.NoError(t, RecordRuns(db, nil))

	all, err := RecentRuns(db, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "impossible", all[0].Profile)
	assert.Equal(t, int64(3), *all[0].Seed)
	assert.Equal(t, "cli", all[2].Source)
	for _, r := range all {
		assert.Len(t, r.ID, 36)
	}

	feasible, err := RecentRuns(db, "feasible", 1)
	require.NoError(t, err)
	require.Len(t, feasible, 1)
	assert.Equal(t, "shifts", feasible[0].Kind)
}
