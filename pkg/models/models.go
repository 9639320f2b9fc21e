package models

import "time"

// Volunteer represents a generated roster entry
type Volunteer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	MaxHours int    `json:"max_hours"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// GroupSpec describes one block of volunteers sharing a group label
type GroupSpec struct {
	Label         string `json:"label" yaml:"label"`
	Singular      string `json:"singular" yaml:"singular"`
	Count         int    `json:"count" yaml:"count"`
	MaxHours      int    `json:"max_hours" yaml:"max_hours"`
	PhoneExchange int    `json:"phone_exchange" yaml:"phone_exchange"`
}

// GroupCount is a single group:headcount entry of a requirement
type GroupCount struct {
	Group string `json:"group" yaml:"group"`
	Count int    `json:"count" yaml:"count"`
}

// Requirement is the per-shift staffing template.
// Required is ordered so that serialized output is stable.
type Requirement struct {
	Required []GroupCount `json:"required_groups" yaml:"required_groups"`
	Allowed  []string     `json:"allowed_groups,omitempty" yaml:"allowed_groups,omitempty"`
	Excluded []string     `json:"excluded_groups,omitempty" yaml:"excluded_groups,omitempty"`
}

// Clone returns a deep copy of the requirement
func (r Requirement) Clone() Requirement {
	out := Requirement{
		Required: append([]GroupCount(nil), r.Required...),
	}
	if r.Allowed != nil {
		out.Allowed = append([]string(nil), r.Allowed...)
	}
	if r.Excluded != nil {
		out.Excluded = append([]string(nil), r.Excluded...)
	}
	return out
}

// Headcount returns the total number of volunteers the requirement asks for
func (r Requirement) Headcount() int {
	total := 0
	for _, gc := range r.Required {
		total += gc.Count
	}
	return total
}

// Shift represents a generated time slot
type Shift struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Track       int         `json:"track"`
	Requirement Requirement `json:"requirement"`
}

// GroupBalance is the capacity/demand summary of one volunteer group
type GroupBalance struct {
	Group          string  `json:"group"`
	Headcount      int     `json:"headcount"`
	CapacityHours  float64 `json:"capacity_hours"`
	DemandHours    float64 `json:"demand_hours"`
	PeakDemand     int     `json:"peak_demand"`
	RequiredSlots  int     `json:"required_slots"`
	SlackHours     float64 `json:"slack_hours"`
	EligibleShifts int     `json:"eligible_shifts"`
}

// ConflictReason represents why a group can never be fully staffed
type ConflictReason struct {
	Group   string   `json:"group"`
	Reasons []string `json:"reasons"`
}

// FeasibilityReport compares roster capacity against schedule demand
type FeasibilityReport struct {
	Groups        []GroupBalance   `json:"groups"`
	Conflicts     []ConflictReason `json:"conflicts,omitempty"`
	TotalCapacity float64          `json:"total_capacity_hours"`
	TotalDemand   float64          `json:"total_demand_hours"`
	Feasible      bool             `json:"feasible"`
}
