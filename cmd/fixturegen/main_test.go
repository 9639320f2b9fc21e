package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/database"
	"github.com/arnavshah/scheduler-fixtures-go/pkg/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var sampleFiles = []string{
	"sample_volunteers.csv",
	"sample_shifts.csv",
	"sample_volunteers_impossible.csv",
	"sample_shifts_impossible.csv",
}

func TestGenerate_AllProfiles(t *testing.T) {
	first := t.TempDir()
	out, err := execute(t, "generate", "--out", first)
	require.NoError(t, err)
	assert.Equal(t,
		"Generated 121 volunteers.\nGenerated 150 shifts.\n"+
			"Generated 20 volunteers.\nGenerated 150 shifts.\n",
		out)

	second := t.TempDir()
	_, err = execute(t, "--out", second)
	require.NoError(t, err)

	for _, name := range sampleFiles {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err, name)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.Equal(a, b), "%s differs between runs", name)
	}

	vols, err := os.ReadFile(filepath.Join(first, "sample_volunteers.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(vols), "Name,Group,Max Hours,Email,Phone\r\n"))
}

func TestGenerate_SingleProfileAPIFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "generate", "-p", "impossible", "--format", "api", "--id-style", "uuid", "-o", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	data, err := os.ReadFile(filepath.Join(dir, "sample_shifts_impossible.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 151)
	assert.Equal(t, "id,name,start,end,required_groups,allowed_groups,excluded_groups", lines[0])
	assert.Len(t, strings.SplitN(lines[1], ",", 2)[0], 36)
}

func TestGenerate_ProfileFileWithJitter(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "weekend.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`name: weekend
groups:
  - label: Leads
    count: 2
    max_hours: 8
shifts:
  count: 6
  base: "2026-03-07T09:00:00Z"
  duration: 3h
  track_size: 3
  requirement:
    required_groups:
      - group: Leads
        count: 1
`), 0o644))

	out := filepath.Join(dir, "out")
	stdout, err := execute(t, "-f", profile, "--seed", "7", "--jitter", "1", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 2 volunteers.")
	assert.Contains(t, stdout, "Generated 6 shifts.")

	first, err := os.ReadFile(filepath.Join(out, "weekend_shifts.csv"))
	require.NoError(t, err)

	_, err = execute(t, "-f", profile, "--seed", "7", "--jitter", "1", "-o", out)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(out, "weekend_shifts.csv"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_Ledger(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ledger.db")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATA_PATH", dbPath)

	_, err := execute(t, "generate", "-p", "feasible", "-o", dir, "--ledger")
	require.NoError(t, err)

	db, err := database.Open("", dbPath)
	require.NoError(t, err)
	runs, err := database.RecentRuns(db, "feasible", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, "cli", run.Source)
		assert.Equal(t, "legacy", run.Format)
		assert.Nil(t, run.Seed)
		assert.FileExists(t, run.Path)
	}
}

func TestGenerate_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := execute(t, "generate", "-o", blocker)
	assert.Error(t, err)

	_, err = execute(t, "generate", "-o", dir, "--format", "xlsx")
	assert.ErrorContains(t, err, "unknown format")

	_, err = execute(t, "generate", "-o", dir, "-p", "chaotic")
	assert.ErrorContains(t, err, "unknown profile")

	_, err = execute(t, "generate", "-o", dir, "-f", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReport(t *testing.T) {
	out, err := execute(t, "report")
	require.NoError(t, err)

	assert.Contains(t, out, "Profile feasible: feasible\n")
	assert.Contains(t, out, "Profile impossible: infeasible\n")
	assert.Contains(t, out, "Delegates: demand 600h exceeds capacity 50h")
	assert.Contains(t, out, "Adults: demand 600h exceeds capacity 60h")

	var total string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "TOTAL") {
			total = line
			break
		}
	}
	assert.Equal(t, []string{"TOTAL", "121", "1322h", "1200h", "122h"}, strings.Fields(total))
}

func TestGenerate_GroupRulesNeedAPIFormat(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`name: rules
groups:
  - label: Leads
    count: 2
    max_hours: 8
shifts:
  count: 2
  duration: 1h
  requirement:
    required_groups:
      - group: Leads
        count: 1
    excluded_groups: [Guests]
`), 0o644))

	out := filepath.Join(dir, "out")
	_, err := execute(t, "-f", profile, "-o", out)
	require.ErrorIs(t, err, fixtures.ErrUnrepresentable)
	_, statErr := os.Stat(filepath.Join(out, "rules_volunteers.csv"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	_, err = execute(t, "-f", profile, "-o", out, "--format", "api")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(out, "rules_shifts.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Leads:1,,Guests\n")
}
