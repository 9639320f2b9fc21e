package fixtures

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
	"gopkg.in/yaml.v3"
)

// Profile bundles a roster definition with a shift plan and output file names
type Profile struct {
	Name           string
	Groups         []models.GroupSpec
	Shifts         ShiftPlan
	VolunteersFile string
	ShiftsFile     string
}

func sampleShiftPlan() ShiftPlan {
	return ShiftPlan{
		Count:        150,
		Base:         DefaultBase,
		Duration:     2 * time.Hour,
		TrackSize:    10,
		TracksPerDay: 5,
		DayGap:       24 * time.Hour,
		NamePrefix:   "Shift",
		Requirement: models.Requirement{
			Required: []models.GroupCount{
				{Group: "Delegates", Count: 2},
				{Group: "Adults", Count: 2},
			},
		},
	}
}

// Feasible is the roster whose capacity covers the sample schedule:
// Delegates 650h vs 600h demand, Adults 672h vs 600h.
func Feasible() Profile {
	return Profile{
		Name: "feasible",
		Groups: []models.GroupSpec{
			{Label: "Delegates", Singular: "Delegate", Count: 65, MaxHours: 10, PhoneExchange: 101},
			{Label: "Adults", Singular: "Adult", Count: 56, MaxHours: 12, PhoneExchange: 201},
		},
		Shifts:         sampleShiftPlan(),
		VolunteersFile: "sample_volunteers.csv",
		ShiftsFile:     "sample_shifts.csv",
	}
}

// Impossible is the under-staffed roster against the same schedule:
// Delegates 50h and Adults 60h against 600h each.
func Impossible() Profile {
	return Profile{
		Name: "impossible",
		Groups: []models.GroupSpec{
			{Label: "Delegates", Singular: "Delegate", Count: 10, MaxHours: 5, PhoneExchange: 101},
			{Label: "Adults", Singular: "Adult", Count: 10, MaxHours: 6, PhoneExchange: 201},
		},
		Shifts:         sampleShiftPlan(),
		VolunteersFile: "sample_volunteers_impossible.csv",
		ShiftsFile:     "sample_shifts_impossible.csv",
	}
}

// Presets returns the built-in profiles in generation order
func Presets() []Profile {
	return []Profile{Feasible(), Impossible()}
}

// LookupProfile returns a built-in profile by name
func LookupProfile(name string) (Profile, error) {
	for _, p := range Presets() {
		if p.Name == strings.ToLower(name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// ProfileSpec is the YAML/JSON shape of a profile
type ProfileSpec struct {
	Name           string             `json:"name" yaml:"name"`
	VolunteersFile string             `json:"volunteers_file" yaml:"volunteers_file"`
	ShiftsFile     string             `json:"shifts_file" yaml:"shifts_file"`
	Groups         []models.GroupSpec `json:"groups" yaml:"groups"`
	Shifts         ShiftPlanSpec      `json:"shifts" yaml:"shifts"`
}

// ShiftPlanSpec is the YAML/JSON shape of a shift plan. Base is RFC3339 and
// durations use Go duration syntax ("2h", "24h").
type ShiftPlanSpec struct {
	Count        int                `json:"count" yaml:"count"`
	Base         string             `json:"base" yaml:"base"`
	Duration     string             `json:"duration" yaml:"duration"`
	TrackSize    int                `json:"track_size" yaml:"track_size"`
	TracksPerDay int                `json:"tracks_per_day" yaml:"tracks_per_day"`
	DayGap       string             `json:"day_gap" yaml:"day_gap"`
	NamePrefix   string             `json:"name_prefix" yaml:"name_prefix"`
	Requirement  models.Requirement `json:"requirement" yaml:"requirement"`
	Jitter       *Jitter            `json:"jitter,omitempty" yaml:"jitter,omitempty"`
}

// Profile converts the spec into a validated Profile
func (s ProfileSpec) Profile() (Profile, error) {
	p := Profile{
		Name:           s.Name,
		Groups:         s.Groups,
		VolunteersFile: s.VolunteersFile,
		ShiftsFile:     s.ShiftsFile,
	}
	if p.Name == "" {
		p.Name = "custom"
	}
	if p.VolunteersFile == "" {
		p.VolunteersFile = p.Name + "_volunteers.csv"
	}
	if p.ShiftsFile == "" {
		p.ShiftsFile = p.Name + "_shifts.csv"
	}

	plan := ShiftPlan{
		Count:        s.Shifts.Count,
		Base:         DefaultBase,
		TrackSize:    s.Shifts.TrackSize,
		TracksPerDay: s.Shifts.TracksPerDay,
		NamePrefix:   s.Shifts.NamePrefix,
		Requirement:  s.Shifts.Requirement,
		Jitter:       s.Shifts.Jitter,
		Duration:     2 * time.Hour,
	}
	if s.Shifts.Base != "" {
		base, err := time.Parse(time.RFC3339, s.Shifts.Base)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: base: %v", ErrInvalidPlan, err)
		}
		plan.Base = base.UTC()
	}
	if s.Shifts.Duration != "" {
		d, err := time.ParseDuration(s.Shifts.Duration)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: duration: %v", ErrInvalidPlan, err)
		}
		plan.Duration = d
	}
	if s.Shifts.DayGap != "" {
		d, err := time.ParseDuration(s.Shifts.DayGap)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: day_gap: %v", ErrInvalidPlan, err)
		}
		plan.DayGap = d
	}
	if plan.TrackSize == 0 {
		plan.TrackSize = plan.Count
		if plan.TrackSize == 0 {
			plan.TrackSize = 1
		}
	}
	if err := plan.Validate(); err != nil {
		return Profile{}, err
	}
	if err := validateGroups(p.Groups); err != nil {
		return Profile{}, err
	}
	p.Shifts = plan
	return p, nil
}

// ParseProfile decodes a YAML (or JSON) profile document
func ParseProfile(data []byte) (Profile, error) {
	var spec ProfileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return spec.Profile()
}

// LoadProfile reads a profile file from disk
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile %s: %w", path, err)
	}
	return ParseProfile(data)
}
