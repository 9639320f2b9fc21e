// Package fixtures builds deterministic volunteer rosters and shift schedules
// and writes them as CSV.
package fixtures

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IDStyle selects how record identifiers are derived
type IDStyle string

const (
	IDStyleSequential IDStyle = "sequential"
	IDStyleUUID       IDStyle = "uuid"
)

// fixtureNamespace seeds name-based UUIDs so ids are stable across runs
var fixtureNamespace = uuid.MustParse("6f1c2a4e-8a53-4b0e-9d55-3c1b8f0e7a21")

// ParseIDStyle maps a flag/env value onto an IDStyle
func ParseIDStyle(s string) (IDStyle, error) {
	switch IDStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDStyleSequential:
		return IDStyleSequential, nil
	case IDStyleUUID:
		return IDStyleUUID, nil
	}
	return "", fmt.Errorf("unknown id style %q", s)
}

// Generator produces volunteer and shift records
type Generator struct {
	Logger  *zap.Logger
	IDStyle IDStyle
}

// NewGenerator creates a new generator instance
func NewGenerator(logger *zap.Logger, style IDStyle) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if style == "" {
		style = IDStyleSequential
	}
	return &Generator{Logger: logger, IDStyle: style}
}

func (g *Generator) id(kind string, n int) string {
	if g.IDStyle == IDStyleUUID {
		return uuid.NewSHA1(fixtureNamespace, []byte(kind+"/"+strconv.Itoa(n))).String()
	}
	return kind + "-" + strconv.Itoa(n)
}

// GenerateVolunteers emits Count volunteers per group spec, group-major.
// A single counter numbers volunteers across all groups.
func (g *Generator) GenerateVolunteers(specs []models.GroupSpec) ([]models.Volunteer, error) {
	if err := validateGroups(specs); err != nil {
		return nil, err
	}

	total := 0
	for _, gs := range specs {
		total += gs.Count
	}
	volunteers := make([]models.Volunteer, 0, total)

	n := 0
	for gi, gs := range specs {
		singular := gs.Singular
		if singular == "" {
			singular = strings.TrimSuffix(gs.Label, "s")
		}
		exchange := gs.PhoneExchange
		if exchange == 0 {
			exchange = 101 + 100*gi
		}
		handle := strings.ToLower(strings.ReplaceAll(singular, " ", ""))

		for i := 0; i < gs.Count; i++ {
			n++
			volunteers = append(volunteers, models.Volunteer{
				ID:       g.id("vol", n),
				Name:     fmt.Sprintf("%s %d", singular, n),
				Group:    gs.Label,
				MaxHours: gs.MaxHours,
				Email:    fmt.Sprintf("%s%d@example.com", handle, n),
				Phone:    fmt.Sprintf("(555) %03d-%04d", exchange, n),
			})
		}
	}

	g.Logger.Info("Generated volunteers", zap.Int("count", len(volunteers)))
	return volunteers, nil
}

// GenerateShifts lays out plan.Count shifts in tracks, each carrying its own
// copy of the plan's requirement
func (g *Generator) GenerateShifts(plan ShiftPlan) ([]models.Shift, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	plan = plan.withDefaults()

	var r *rand.Rand
	if plan.Jitter != nil {
		r = rand.New(rand.NewSource(plan.Jitter.Seed))
		g.Logger.Info("Jittering shift requirements",
			zap.Int64("seed", plan.Jitter.Seed),
			zap.Int("max_extra", plan.Jitter.MaxExtra))
	}

	shifts := make([]models.Shift, 0, plan.Count)
	for i := 1; i <= plan.Count; i++ {
		track, start := plan.Place(i)
		req := plan.Requirement.Clone()
		if r != nil {
			for k := range req.Required {
				req.Required[k].Count += r.Intn(plan.Jitter.MaxExtra + 1)
			}
		}
		shifts = append(shifts, models.Shift{
			ID:          g.id("shift", i),
			Name:        fmt.Sprintf("%s %d", plan.NamePrefix, i),
			Start:       start,
			End:         start.Add(plan.Duration),
			Track:       track,
			Requirement: req,
		})
	}

	g.Logger.Info("Generated shifts", zap.Int("count", len(shifts)))
	return shifts, nil
}
