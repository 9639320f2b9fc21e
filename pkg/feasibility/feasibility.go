package feasibility

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
)

// Analyzer compares what a roster can supply against what a schedule asks for
type Analyzer struct {
	Volunteers []models.Volunteer
	Shifts     []models.Shift
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(volunteers []models.Volunteer, shifts []models.Shift) *Analyzer {
	return &Analyzer{
		Volunteers: volunteers,
		Shifts:     shifts,
	}
}

// DurationHours calculates the duration between two times in hours
func (a *Analyzer) DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// Overlap checks if two time ranges overlap
func (a *Analyzer) Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Allows checks if members of group may work a shift
func (a *Analyzer) Allows(shift models.Shift, group string) bool {
	for _, g := range shift.Requirement.Excluded {
		if g == group {
			return false
		}
	}
	if len(shift.Requirement.Allowed) > 0 {
		for _, g := range shift.Requirement.Allowed {
			if g == group {
				return true
			}
		}
		return false
	}
	return true
}

// GroupByGroup returns volunteers grouped by their group name
func (a *Analyzer) GroupByGroup() map[string][]models.Volunteer {
	volsByGroup := make(map[string][]models.Volunteer)
	for _, vol := range a.Volunteers {
		volsByGroup[vol.Group] = append(volsByGroup[vol.Group], vol)
	}
	return volsByGroup
}

// groupOrder lists roster groups first, then groups only the schedule names
func (a *Analyzer) groupOrder() []string {
	seen := make(map[string]bool)
	var order []string
	for _, v := range a.Volunteers {
		if !seen[v.Group] {
			seen[v.Group] = true
			order = append(order, v.Group)
		}
	}
	for _, sh := range a.Shifts {
		for _, gc := range sh.Requirement.Required {
			if !seen[gc.Group] {
				seen[gc.Group] = true
				order = append(order, gc.Group)
			}
		}
	}
	return order
}

// PeakDemand returns, per group, the largest headcount required at a single
// instant. Shifts are half-open, so back-to-back shifts do not stack.
func (a *Analyzer) PeakDemand() map[string]int {
	type event struct {
		at    time.Time
		delta int
	}
	events := make(map[string][]event)
	for _, sh := range a.Shifts {
		for _, gc := range sh.Requirement.Required {
			if gc.Count == 0 {
				continue
			}
			events[gc.Group] = append(events[gc.Group],
				event{sh.Start, gc.Count},
				event{sh.End, -gc.Count})
		}
	}

	peaks := make(map[string]int, len(events))
	for group, evs := range events {
		sort.Slice(evs, func(i, j int) bool {
			if evs[i].at.Equal(evs[j].at) {
				return evs[i].delta < evs[j].delta
			}
			return evs[i].at.Before(evs[j].at)
		})
		running, peak := 0, 0
		for _, ev := range evs {
			running += ev.delta
			if running > peak {
				peak = running
			}
		}
		peaks[group] = peak
	}
	return peaks
}

// Analyze builds the per-group capacity/demand report
func (a *Analyzer) Analyze() models.FeasibilityReport {
	volsByGroup := a.GroupByGroup()
	peaks := a.PeakDemand()

	balances := make(map[string]*models.GroupBalance)
	disallowed := make(map[string]int)
	order := a.groupOrder()
	for _, g := range order {
		b := &models.GroupBalance{Group: g, Headcount: len(volsByGroup[g]), PeakDemand: peaks[g]}
		for _, v := range volsByGroup[g] {
			b.CapacityHours += float64(v.MaxHours)
		}
		balances[g] = b
	}

	for _, sh := range a.Shifts {
		duration := a.DurationHours(sh.Start, sh.End)
		for _, gc := range sh.Requirement.Required {
			if gc.Count == 0 {
				continue
			}
			b := balances[gc.Group]
			b.RequiredSlots += gc.Count
			b.DemandHours += float64(gc.Count) * duration
			if a.Allows(sh, gc.Group) {
				b.EligibleShifts++
			} else {
				disallowed[gc.Group]++
			}
		}
	}

	report := models.FeasibilityReport{Feasible: true}
	for _, g := range order {
		b := balances[g]
		b.SlackHours = b.CapacityHours - b.DemandHours
		report.TotalCapacity += b.CapacityHours
		report.TotalDemand += b.DemandHours
		report.Groups = append(report.Groups, *b)

		var reasons []string
		if b.RequiredSlots > 0 && b.Headcount == 0 {
			reasons = append(reasons, "no volunteers found in this group")
		} else {
			if b.DemandHours > b.CapacityHours {
				reasons = append(reasons, fmt.Sprintf("demand %sh exceeds capacity %sh",
					formatHours(b.DemandHours), formatHours(b.CapacityHours)))
			}
			if b.PeakDemand > b.Headcount {
				reasons = append(reasons, fmt.Sprintf("%d volunteers needed at once but only %d in group",
					b.PeakDemand, b.Headcount))
			}
		}
		if n := disallowed[g]; n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d shifts require the group but disallow it by group rules", n))
		}

		if len(reasons) > 0 {
			report.Feasible = false
			report.Conflicts = append(report.Conflicts, models.ConflictReason{Group: g, Reasons: reasons})
		}
	}
	return report
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
