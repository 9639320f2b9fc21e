package fixtures

import (
	"io"
	"path/filepath"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
	"go.uber.org/zap"
)

// Fixture is one generated roster/schedule pair
type Fixture struct {
	Profile    Profile
	Volunteers []models.Volunteer
	Shifts     []models.Shift
}

// FileResult describes one written output file
type FileResult struct {
	Kind   string
	Path   string
	Rows   int
	SHA256 string
}

// Build generates and validates both datasets of a profile
func (g *Generator) Build(p Profile) (*Fixture, error) {
	volunteers, err := g.GenerateVolunteers(p.Groups)
	if err != nil {
		return nil, err
	}
	shifts, err := g.GenerateShifts(p.Shifts)
	if err != nil {
		return nil, err
	}
	if err := ValidateShifts(shifts, p.Shifts); err != nil {
		return nil, err
	}
	return &Fixture{Profile: p, Volunteers: volunteers, Shifts: shifts}, nil
}

// WriteVolunteers writes the roster in the given format
func (fx *Fixture) WriteVolunteers(w io.Writer, f Format) error {
	return WriteVolunteers(w, f, fx.Volunteers)
}

// WriteShifts writes the schedule in the given format
func (fx *Fixture) WriteShifts(w io.Writer, f Format) error {
	return WriteShifts(w, f, fx.Shifts)
}

// WriteTo writes both files into dir, overwriting existing ones. It stops at
// the first failure; a file already written is left in place.
func (fx *Fixture) WriteTo(dir string, f Format, logger *zap.Logger) ([]FileResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := f.CheckShifts(fx.Shifts); err != nil {
		return nil, err
	}

	jobs := []struct {
		kind  string
		name  string
		rows  int
		write func(io.Writer) error
	}{
		{"volunteers", fx.Profile.VolunteersFile, len(fx.Volunteers), func(w io.Writer) error { return fx.WriteVolunteers(w, f) }},
		{"shifts", fx.Profile.ShiftsFile, len(fx.Shifts), func(w io.Writer) error { return fx.WriteShifts(w, f) }},
	}

	results := make([]FileResult, 0, len(jobs))
	for _, job := range jobs {
		path := filepath.Join(dir, job.name)
		digest, err := WriteFile(path, job.write)
		if err != nil {
			return results, err
		}
		logger.Info("Wrote fixture file",
			zap.String("profile", fx.Profile.Name),
			zap.String("kind", job.kind),
			zap.String("path", path),
			zap.Int("rows", job.rows),
			zap.String("sha256", digest))
		results = append(results, FileResult{Kind: job.kind, Path: path, Rows: job.rows, SHA256: digest})
	}
	return results, nil
}
