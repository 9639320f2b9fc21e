package fixtures

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arnavshah/scheduler-fixtures-go/pkg/models"
)

// Format selects the column set and cell encodings of the CSV output
type Format string

const (
	// FormatLegacy matches the sample files shipped with the web app
	FormatLegacy Format = "legacy"
	// FormatAPI matches the scheduler API's CSV upload contract
	FormatAPI Format = "api"
)

const (
	LegacyTimeLayout = "01/02/2006 03:04 PM"
	APITimeLayout    = "2006-01-02T15:04:05Z"
)

// ParseFormat maps a flag/env value onto a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatLegacy:
		return FormatLegacy, nil
	case FormatAPI:
		return FormatAPI, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// TimeLayout returns the timestamp layout used by the format
func (f Format) TimeLayout() string {
	if f == FormatAPI {
		return APITimeLayout
	}
	return LegacyTimeLayout
}

// FormatTime renders t in the format's layout
func (f Format) FormatTime(t time.Time) string {
	return t.UTC().Format(f.TimeLayout())
}

// ParseTime is the inverse of FormatTime; the result is in UTC
func (f Format) ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(f.TimeLayout(), s, time.UTC)
}

// VolunteerHeader returns the volunteer column names in declared order
func (f Format) VolunteerHeader() []string {
	if f == FormatAPI {
		return []string{"id", "name", "group", "max_hours", "email", "phone"}
	}
	return []string{"Name", "Group", "Max Hours", "Email", "Phone"}
}

// ShiftHeader returns the shift column names in declared order
func (f Format) ShiftHeader() []string {
	if f == FormatAPI {
		return []string{"id", "name", "start", "end", "required_groups", "allowed_groups", "excluded_groups"}
	}
	return []string{"Name", "Start", "End", "Groups"}
}

// FormatRequired serializes required groups as a group:count list
func (f Format) FormatRequired(req []models.GroupCount) string {
	parts := make([]string, 0, len(req))
	for _, gc := range req {
		parts = append(parts, gc.Group+":"+strconv.Itoa(gc.Count))
	}
	if f == FormatAPI {
		return strings.Join(parts, "|")
	}
	return strings.Join(parts, ", ")
}

func (f Format) newWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	// The legacy samples were written with CRLF row endings
	writer.UseCRLF = f == FormatLegacy
	return writer
}

// WriteVolunteers writes the header and one row per volunteer
func WriteVolunteers(w io.Writer, f Format, volunteers []models.Volunteer) error {
	writer := f.newWriter(w)
	if err := writer.Write(f.VolunteerHeader()); err != nil {
		return fmt.Errorf("write volunteer header: %w", err)
	}
	for _, v := range volunteers {
		row := []string{v.Name, v.Group, strconv.Itoa(v.MaxHours), v.Email, v.Phone}
		if f == FormatAPI {
			row = append([]string{v.ID}, row...)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write volunteer %s: %w", v.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// CheckShifts reports the first shift the format cannot carry without loss.
// Legacy timestamps have minute precision and the legacy columns have no
// place for allowed or excluded groups.
func (f Format) CheckShifts(shifts []models.Shift) error {
	if f == FormatAPI {
		return nil
	}
	for _, sh := range shifts {
		for _, t := range []time.Time{sh.Start, sh.End} {
			if !t.Truncate(time.Minute).Equal(t) {
				return fmt.Errorf("%w: %s: %s is not a whole minute (use the api format)",
					ErrUnrepresentable, sh.Name, t.UTC().Format(time.RFC3339Nano))
			}
		}
		if len(sh.Requirement.Allowed) > 0 || len(sh.Requirement.Excluded) > 0 {
			return fmt.Errorf("%w: %s has allowed or excluded groups (use the api format)",
				ErrUnrepresentable, sh.Name)
		}
	}
	return nil
}

// WriteShifts writes the header and one row per shift. Nothing is written
// when the format cannot carry the shifts.
func WriteShifts(w io.Writer, f Format, shifts []models.Shift) error {
	if err := f.CheckShifts(shifts); err != nil {
		return err
	}
	writer := f.newWriter(w)
	if err := writer.Write(f.ShiftHeader()); err != nil {
		return fmt.Errorf("write shift header: %w", err)
	}
	for _, sh := range shifts {
		var row []string
		if f == FormatAPI {
			row = []string{
				sh.ID,
				sh.Name,
				f.FormatTime(sh.Start),
				f.FormatTime(sh.End),
				f.FormatRequired(sh.Requirement.Required),
				strings.Join(sh.Requirement.Allowed, "|"),
				strings.Join(sh.Requirement.Excluded, "|"),
			}
		} else {
			row = []string{
				sh.Name,
				f.FormatTime(sh.Start),
				f.FormatTime(sh.End),
				f.FormatRequired(sh.Requirement.Required),
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write shift %s: %w", sh.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile creates (or truncates) path, runs write against it and returns
// the hex SHA-256 of everything written. The file is closed on every path.
func WriteFile(path string, write func(io.Writer) error) (digest string, err error) {
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	h := sha256.New()
	if err := write(io.MultiWriter(file, h)); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
