package fixtures

import (
	"testing"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVolunteers_Feasible(t *testing.T) {
	g := NewGenerator(nil, IDStyleSequential)
	vols, err := g.GenerateVolunteers(Feasible().Groups)
	require.NoError(t, err)
	require.Len(t, vols, 65+56)

	assert.Equal(t, models.Volunteer{
		ID:       "vol-1",
		Name:     "Delegate 1",
		Group:    "Delegates",
		MaxHours: 10,
		Email:    "delegate1@example.com",
		Phone:    "(555) 101-0001",
	}, vols[0])

	// The counter keeps running across groups
	assert.Equal(t, models.Volunteer{
		ID:       "vol-66",
		Name:     "Adult 66",
		Group:    "Adults",
		MaxHours: 12,
		Email:    "adult66@example.com",
		Phone:    "(555) 201-0066",
	}, vols[65])
	assert.Equal(t, "Adult 121", vols[120].Name)

	ids := make(map[string]bool)
	for _, v := range vols {
		assert.False(t, ids[v.ID], "duplicate id %s", v.ID)
		ids[v.ID] = true
		switch v.Group {
		case "Delegates":
			assert.Equal(t, 10, v.MaxHours)
		case "Adults":
			assert.Equal(t, 12, v.MaxHours)
		default:
			t.Fatalf("unexpected group %q", v.Group)
		}
	}
}

func TestGenerateVolunteers_CountsMatchSpecs(t *testing.T) {
	specs := []models.GroupSpec{
		{Label: "Leads", Count: 3, MaxHours: 4},
		{Label: "Runners", Count: 0, MaxHours: 8},
		{Label: "Medics", Count: 7, MaxHours: 6},
	}
	vols, err := NewGenerator(nil, "").GenerateVolunteers(specs)
	require.NoError(t, err)
	require.Len(t, vols, 10)

	// Singular and phone exchange fall back to derived defaults
	assert.Equal(t, "Lead 1", vols[0].Name)
	assert.Equal(t, "(555) 101-0001", vols[0].Phone)
	assert.Equal(t, "Medic 4", vols[3].Name)
	assert.Equal(t, "medic4@example.com", vols[3].Email)
	assert.Equal(t, "(555) 301-0004", vols[3].Phone)
}

func TestGenerateVolunteers_UUIDStable(t *testing.T) {
	a, err := NewGenerator(nil, IDStyleUUID).GenerateVolunteers(Impossible().Groups)
	require.NoError(t, err)
	b, err := NewGenerator(nil, IDStyleUUID).GenerateVolunteers(Impossible().Groups)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a[0].ID, 36)
	assert.NotEqual(t, a[0].ID, a[1].ID)
}

func TestGenerateVolunteers_InvalidGroups(t *testing.T) {
	cases := map[string][]models.GroupSpec{
		"empty label": {{Label: "", Count: 1}},
		"duplicate":   {{Label: "A", Count: 1}, {Label: "A", Count: 2}},
		"negative":    {{Label: "A", Count: -1}},
		"bad hours":   {{Label: "A", Count: 1, MaxHours: -2}},
		"too many":    {{Label: "A", Count: MaxVolunteers + 1}},
		"sum too big": {{Label: "A", Count: 1 << 62}, {Label: "B", Count: 1 << 62}},
		"huge hours":  {{Label: "A", Count: 1, MaxHours: MaxHoursPerGroup + 1}},
	}
	for name, specs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewGenerator(nil, "").GenerateVolunteers(specs)
			assert.ErrorIs(t, err, ErrInvalidGroups)
		})
	}
}

func TestGenerateShifts_SampleLayout(t *testing.T) {
	shifts, err := NewGenerator(nil, "").GenerateShifts(Feasible().Shifts)
	require.NoError(t, err)
	require.Len(t, shifts, 150)

	at := func(day, hour int) time.Time {
		return time.Date(2025, time.December, day, hour, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, "Shift 1", shifts[0].Name)
	assert.Equal(t, at(1, 8), shifts[0].Start)
	assert.Equal(t, at(1, 10), shifts[0].End)

	// Last slot of a track runs past midnight
	assert.Equal(t, at(2, 2), shifts[9].Start)
	// Five parallel tracks share a day
	assert.Equal(t, shifts[0].Start, shifts[10].Start)
	assert.Equal(t, 1, shifts[10].Track)
	// Shift 51 opens the second day
	assert.Equal(t, at(2, 8), shifts[50].Start)
	assert.Equal(t, at(4, 2), shifts[149].Start)
	assert.Equal(t, at(4, 4), shifts[149].End)

	for _, sh := range shifts {
		assert.Equal(t, 2*time.Hour, sh.End.Sub(sh.Start), sh.Name)
		assert.Equal(t, []models.GroupCount{{Group: "Delegates", Count: 2}, {Group: "Adults", Count: 2}}, sh.Requirement.Required)
	}
}

func TestGenerateShifts_OneTrackPerDay(t *testing.T) {
	plan := ShiftPlan{
		Count:     25,
		Base:      DefaultBase,
		Duration:  90 * time.Minute,
		TrackSize: 4,
		Requirement: models.Requirement{
			Required: []models.GroupCount{{Group: "Adults", Count: 1}},
		},
	}
	shifts, err := NewGenerator(nil, "").GenerateShifts(plan)
	require.NoError(t, err)
	require.Len(t, shifts, 25)

	for i, sh := range shifts {
		assert.Equal(t, plan.Duration, sh.End.Sub(sh.Start))
		assert.Equal(t, i/plan.TrackSize, sh.Track)

		if i%plan.TrackSize != 0 {
			prev := shifts[i-1]
			assert.True(t, sh.Start.After(prev.Start))
			assert.Equal(t, prev.End, sh.Start, "intra-track shifts are back-to-back")
		}
		if j := i + plan.TrackSize; j < len(shifts) {
			assert.Equal(t, 24*time.Hour, shifts[j].Start.Sub(sh.Start), "shift %d vs %d", i+1, j+1)
		}
	}
	require.NoError(t, ValidateShifts(shifts, plan))
}

func TestGenerateShifts_RequirementIsCopied(t *testing.T) {
	plan := Feasible().Shifts
	plan.Count = 3
	plan.Requirement.Allowed = []string{"Delegates", "Adults"}
	shifts, err := NewGenerator(nil, "").GenerateShifts(plan)
	require.NoError(t, err)

	shifts[0].Requirement.Required[0].Count = 99
	shifts[0].Requirement.Allowed[0] = "Nobody"

	assert.Equal(t, 2, shifts[1].Requirement.Required[0].Count)
	assert.Equal(t, "Delegates", shifts[1].Requirement.Allowed[0])
	assert.Equal(t, 2, plan.Requirement.Required[0].Count)
}

func TestGenerateShifts_ZeroCount(t *testing.T) {
	plan := Feasible().Shifts
	plan.Count = 0
	shifts, err := NewGenerator(nil, "").GenerateShifts(plan)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestGenerateShifts_InvalidPlan(t *testing.T) {
	base := Feasible().Shifts
	cases := map[string]func(p *ShiftPlan){
		"negative count":   func(p *ShiftPlan) { p.Count = -1 },
		"zero duration":    func(p *ShiftPlan) { p.Duration = 0 },
		"zero track size":  func(p *ShiftPlan) { p.TrackSize = 0 },
		"negative per day": func(p *ShiftPlan) { p.TracksPerDay = -1 },
		"negative gap":     func(p *ShiftPlan) { p.DayGap = -time.Hour },
		"negative jitter":  func(p *ShiftPlan) { p.Jitter = &Jitter{MaxExtra: -1} },
		"negative req":     func(p *ShiftPlan) { p.Requirement.Required = []models.GroupCount{{Group: "A", Count: -1}} },
		"too many shifts":  func(p *ShiftPlan) { p.Count = MaxShifts + 1 },
		"huge req":         func(p *ShiftPlan) { p.Requirement.Required = []models.GroupCount{{Group: "A", Count: 1 << 40}} },
		"huge jitter":      func(p *ShiftPlan) { p.Jitter = &Jitter{MaxExtra: MaxRequiredCount + 1} },
		"span too long":    func(p *ShiftPlan) { p.Duration = 1 << 62 },
		"too many days":    func(p *ShiftPlan) { p.Count, p.TrackSize, p.TracksPerDay = MaxShifts, 1, 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			plan := base
			plan.Requirement = base.Requirement.Clone()
			mutate(&plan)
			_, err := NewGenerator(nil, "").GenerateShifts(plan)
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestGenerateVolunteers_AtLimit(t *testing.T) {
	specs := []models.GroupSpec{
		{Label: "A", Count: MaxVolunteers - 1, MaxHours: MaxHoursPerGroup},
		{Label: "B", Count: 1, MaxHours: 1},
	}
	assert.NoError(t, validateGroups(specs))

	specs[1].Count = 2
	assert.ErrorIs(t, validateGroups(specs), ErrInvalidGroups)
}

func TestGenerateShifts_JitterReproducible(t *testing.T) {
	plan := Feasible().Shifts
	plan.Jitter = &Jitter{Seed: 42, MaxExtra: 2}

	a, err := NewGenerator(nil, "").GenerateShifts(plan)
	require.NoError(t, err)
	b, err := NewGenerator(nil, "").GenerateShifts(plan)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	varied := false
	for _, sh := range a {
		for _, gc := range sh.Requirement.Required {
			assert.GreaterOrEqual(t, gc.Count, 2)
			assert.LessOrEqual(t, gc.Count, 4)
			if gc.Count != 2 {
				varied = true
			}
		}
	}
	assert.True(t, varied, "jitter should change at least one count")

	plan.Jitter = &Jitter{Seed: 43, MaxExtra: 2}
	c, err := NewGenerator(nil, "").GenerateShifts(plan)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCapacityAndDemand(t *testing.T) {
	feasible := Feasible()
	assert.Equal(t, []GroupHours{{"Delegates", 650}, {"Adults", 672}}, CapacityHours(feasible.Groups))
	assert.Equal(t, []GroupHours{{"Delegates", 600}, {"Adults", 600}}, feasible.Shifts.DemandHours())

	total := 0.0
	for _, gh := range CapacityHours(feasible.Groups) {
		total += gh.Hours
	}
	assert.Equal(t, 1322.0, total)

	impossible := Impossible()
	assert.Equal(t, []GroupHours{{"Delegates", 50}, {"Adults", 60}}, CapacityHours(impossible.Groups))
	assert.Equal(t, feasible.Shifts.DemandHours(), impossible.Shifts.DemandHours())
}
