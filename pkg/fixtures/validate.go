package fixtures

import (
	"fmt"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
)

// ValidateShifts checks a generated schedule against the plan's layout:
// every shift lasts exactly Duration, shifts inside a track are back-to-back,
// and shift i+TrackSize keeps shift i's slot offset within its own day.
func ValidateShifts(shifts []models.Shift, plan ShiftPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	plan = plan.withDefaults()

	if len(shifts) != plan.Count {
		return fmt.Errorf("%w: got %d shifts, plan has %d", ErrInvalidLayout, len(shifts), plan.Count)
	}

	seen := make(map[string]bool, len(shifts))
	for i, sh := range shifts {
		if seen[sh.ID] {
			return fmt.Errorf("%w: duplicate shift id %s", ErrInvalidLayout, sh.ID)
		}
		seen[sh.ID] = true

		if got := sh.End.Sub(sh.Start); got != plan.Duration {
			return fmt.Errorf("%w: %s lasts %s, want %s", ErrInvalidLayout, sh.Name, got, plan.Duration)
		}

		if i > 0 && i%plan.TrackSize != 0 {
			prev := shifts[i-1]
			if prev.Track != sh.Track {
				return fmt.Errorf("%w: %s left track %d early", ErrInvalidLayout, sh.Name, prev.Track)
			}
			if !sh.Start.Equal(prev.End) {
				return fmt.Errorf("%w: %s starts %s after %s ends %s",
					ErrInvalidLayout, sh.Name, sh.Start, prev.Name, prev.End)
			}
		}

		if i >= plan.TrackSize {
			above := shifts[i-plan.TrackSize]
			if sh.Track != above.Track+1 {
				return fmt.Errorf("%w: %s is in track %d, want %d", ErrInvalidLayout, sh.Name, sh.Track, above.Track+1)
			}
			want := above.Start
			if sh.Track%plan.TracksPerDay == 0 {
				want = want.Add(plan.DayGap)
			}
			if !sh.Start.Equal(want) {
				return fmt.Errorf("%w: %s starts %s, want %s", ErrInvalidLayout, sh.Name, sh.Start, want)
			}
		}
	}
	return nil
}
