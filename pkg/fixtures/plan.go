package fixtures

import (
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
)

var (
	ErrInvalidPlan     = errors.New("invalid shift plan")
	ErrInvalidGroups   = errors.New("invalid group specs")
	ErrInvalidLayout   = errors.New("shift layout violated")
	ErrUnknownProfile  = errors.New("unknown profile")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrUnrepresentable = errors.New("shift cannot be written in this format")
)

// Upper bounds on generated sizes. They keep int arithmetic and time offsets
// far from overflow and cap the memory a single request can claim.
const (
	MaxVolunteers    = 1_000_000
	MaxShifts        = 1_000_000
	MaxRequiredCount = 1_000_000
	MaxHoursPerGroup = 24 * 366
	MaxSpan          = 10 * 366 * 24 * time.Hour
)

// DefaultBase is the first shift start of the sample fixtures (Dec 1st, 8 AM)
var DefaultBase = time.Date(2025, time.December, 1, 8, 0, 0, 0, time.UTC)

// Jitter varies required headcounts from a recorded seed.
// Each required count becomes count + rand.Intn(MaxExtra+1).
type Jitter struct {
	Seed     int64 `json:"seed" yaml:"seed"`
	MaxExtra int   `json:"max_extra" yaml:"max_extra"`
}

// ShiftPlan describes how shifts are laid out in time.
//
// Shift i (1-based) belongs to track (i-1)/TrackSize and sits at slot
// (i-1)%TrackSize inside it. Tracks are grouped TracksPerDay to a day; each
// day starts DayGap after the previous one. With TracksPerDay = 1 every track
// is its own day.
type ShiftPlan struct {
	Count        int
	Base         time.Time
	Duration     time.Duration
	TrackSize    int
	TracksPerDay int
	DayGap       time.Duration
	NamePrefix   string
	Requirement  models.Requirement
	Jitter       *Jitter
}

func (p ShiftPlan) withDefaults() ShiftPlan {
	if p.TracksPerDay == 0 {
		p.TracksPerDay = 1
	}
	if p.DayGap == 0 {
		p.DayGap = 24 * time.Hour
	}
	if p.NamePrefix == "" {
		p.NamePrefix = "Shift"
	}
	return p
}

// Validate rejects plans that cannot produce a well-formed layout
func (p ShiftPlan) Validate() error {
	p = p.withDefaults()
	switch {
	case p.Count < 0:
		return fmt.Errorf("%w: count %d is negative", ErrInvalidPlan, p.Count)
	case p.Count > MaxShifts:
		return fmt.Errorf("%w: count %d exceeds %d", ErrInvalidPlan, p.Count, MaxShifts)
	case p.Duration <= 0:
		return fmt.Errorf("%w: duration %s must be positive", ErrInvalidPlan, p.Duration)
	case p.TrackSize < 1:
		return fmt.Errorf("%w: track size %d must be at least 1", ErrInvalidPlan, p.TrackSize)
	case p.TracksPerDay < 1:
		return fmt.Errorf("%w: tracks per day %d must be at least 1", ErrInvalidPlan, p.TracksPerDay)
	case p.DayGap < 0:
		return fmt.Errorf("%w: day gap %s is negative", ErrInvalidPlan, p.DayGap)
	case p.Jitter != nil && p.Jitter.MaxExtra < 0:
		return fmt.Errorf("%w: jitter max extra %d is negative", ErrInvalidPlan, p.Jitter.MaxExtra)
	case p.Jitter != nil && p.Jitter.MaxExtra > MaxRequiredCount:
		return fmt.Errorf("%w: jitter max extra %d exceeds %d", ErrInvalidPlan, p.Jitter.MaxExtra, MaxRequiredCount)
	}
	if span := p.spanHours(); span > MaxSpan.Hours() {
		return fmt.Errorf("%w: schedule spans %.0fh, more than %.0fh", ErrInvalidPlan, span, MaxSpan.Hours())
	}
	for _, gc := range p.Requirement.Required {
		if gc.Group == "" {
			return fmt.Errorf("%w: required group with empty label", ErrInvalidPlan)
		}
		if gc.Count < 0 {
			return fmt.Errorf("%w: required count for %s is negative", ErrInvalidPlan, gc.Group)
		}
		if gc.Count > MaxRequiredCount {
			return fmt.Errorf("%w: required count for %s exceeds %d", ErrInvalidPlan, gc.Group, MaxRequiredCount)
		}
	}
	return nil
}

// spanHours is the offset of the last shift's end from Base, computed in
// float64 so oversized plans cannot wrap around
func (p ShiftPlan) spanHours() float64 {
	if p.Count == 0 {
		return 0
	}
	tracks := (p.Count-1)/p.TrackSize + 1
	days := (tracks - 1) / p.TracksPerDay
	slots := p.TrackSize
	if p.Count < slots {
		slots = p.Count
	}
	return float64(days)*p.DayGap.Hours() + float64(slots)*p.Duration.Hours()
}

// Place returns the track index and start time of shift i (1-based)
func (p ShiftPlan) Place(i int) (int, time.Time) {
	p = p.withDefaults()
	track := (i - 1) / p.TrackSize
	slot := (i - 1) % p.TrackSize
	day := track / p.TracksPerDay
	start := p.Base.Add(time.Duration(day)*p.DayGap + time.Duration(slot)*p.Duration)
	return track, start
}

// DemandHours returns the total required volunteer-hours per group, in
// requirement order, ignoring jitter
func (p ShiftPlan) DemandHours() []GroupHours {
	hours := p.Duration.Hours()
	out := make([]GroupHours, 0, len(p.Requirement.Required))
	for _, gc := range p.Requirement.Required {
		out = append(out, GroupHours{
			Group: gc.Group,
			Hours: float64(p.Count*gc.Count) * hours,
		})
	}
	return out
}

// GroupHours pairs a group label with an hour total
type GroupHours struct {
	Group string
	Hours float64
}

// CapacityHours returns Σ Count×MaxHours per group spec, in spec order
func CapacityHours(specs []models.GroupSpec) []GroupHours {
	out := make([]GroupHours, 0, len(specs))
	for _, gs := range specs {
		out = append(out, GroupHours{Group: gs.Label, Hours: float64(gs.Count * gs.MaxHours)})
	}
	return out
}

func validateGroups(specs []models.GroupSpec) error {
	seen := make(map[string]bool, len(specs))
	total := 0
	for _, gs := range specs {
		if gs.Label == "" {
			return fmt.Errorf("%w: group with empty label", ErrInvalidGroups)
		}
		if seen[gs.Label] {
			return fmt.Errorf("%w: duplicate group %s", ErrInvalidGroups, gs.Label)
		}
		seen[gs.Label] = true
		if gs.Count < 0 {
			return fmt.Errorf("%w: group %s has negative count", ErrInvalidGroups, gs.Label)
		}
		if gs.MaxHours < 0 {
			return fmt.Errorf("%w: group %s has negative max hours", ErrInvalidGroups, gs.Label)
		}
		if gs.MaxHours > MaxHoursPerGroup {
			return fmt.Errorf("%w: group %s max hours %d exceeds %d", ErrInvalidGroups, gs.Label, gs.MaxHours, MaxHoursPerGroup)
		}
		if gs.Count > MaxVolunteers-total {
			return fmt.Errorf("%w: more than %d volunteers requested", ErrInvalidGroups, MaxVolunteers)
		}
		total += gs.Count
	}
	return nil
}
