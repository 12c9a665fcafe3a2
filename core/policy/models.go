package policy

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
)

// Scopes, from most to least specific.
const (
	ScopeClass  = "CLASS"
	ScopeSchool = "SCHOOL"
	ScopeGlobal = "GLOBAL"
)

// scopePriorities drives resolution precedence; a higher priority wins.
var scopePriorities = map[string]int{
	ScopeClass:  3,
	ScopeSchool: 2,
	ScopeGlobal: 1,
}

func ScopePriority(scope string) int {
	return scopePriorities[scope]
}

// Policy is a named set of attendance thresholds and rules scoped to GLOBAL,
// a SCHOOL or a CLASS, with an effective time window. A policy referenced by a
// generated report is never edited in place: changes are saved under a new ID
// and the old one is retired by closing its window.
type Policy struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Scope                string      `json:"scope"`
	ScopeSchoolID        null.String `json:"scope_school_id,omitempty"`
	ScopeClassID         null.String `json:"scope_class_id,omitempty"`
	ConcernThreshold     float64     `json:"concern_threshold"`      // percentage, 0-100
	LateToleranceMinutes int         `json:"late_tolerance_minutes"` // >= 0
	MaxAbsences          int         `json:"max_absences"`           // informational ceiling
	AutoExcuseEnabled    bool        `json:"auto_excuse_enabled"`
	AutoExcuseReasons    []string    `json:"auto_excuse_reasons"` // ordered; first match wins
	EffectiveFrom        time.Time   `json:"effective_from"`      // UTC
	EffectiveTo          null.Time   `json:"effective_to"`        // UTC; open-ended if null
	CreatedAt            time.Time   `json:"created_at"`          // UTC
	UpdatedAt            time.Time   `json:"updated_at"`          // UTC
}

// EffectiveAt reports whether the policy's window contains `at`.
// Both bounds are inclusive.
func (p Policy) EffectiveAt(at time.Time) bool {
	if at.Before(p.EffectiveFrom) {
		return false
	}
	if p.EffectiveTo.Valid && at.After(p.EffectiveTo.Time) {
		return false
	}
	return true
}

// Default returns the hard-coded fallback policy applied when no
// administrator-defined policy matches. It is never persisted and must stay
// identical across call sites so reports remain reproducible.
func Default() Policy {
	return Policy{
		ID:                   "default",
		Name:                 "Default Policy",
		Scope:                ScopeGlobal,
		ConcernThreshold:     80,
		LateToleranceMinutes: 15,
		MaxAbsences:          20,
		AutoExcuseEnabled:    false,
	}
}

// NewPolicy contains information needed to create a new Policy.
type NewPolicy struct {
	Name                 string    `json:"name" validate:"required"`
	Scope                string    `json:"scope" validate:"required,oneof=GLOBAL SCHOOL CLASS"`
	ScopeSchoolID        string    `json:"scope_school_id" validate:"required_if=Scope SCHOOL"`
	ScopeClassID         string    `json:"scope_class_id" validate:"required_if=Scope CLASS"`
	ConcernThreshold     float64   `json:"concern_threshold" validate:"gte=0,lte=100"`
	LateToleranceMinutes int       `json:"late_tolerance_minutes" validate:"gte=0"`
	MaxAbsences          int       `json:"max_absences" validate:"gte=0"`
	AutoExcuseEnabled    bool      `json:"auto_excuse_enabled"`
	AutoExcuseReasons    []string  `json:"auto_excuse_reasons"`
	EffectiveFrom        time.Time `json:"effective_from" validate:"required"`
	EffectiveTo          time.Time `json:"effective_to"`
}

func (np *NewPolicy) Validate() error {
	np.Name = core.CleanString(np.Name)
	for i, r := range np.AutoExcuseReasons {
		np.AutoExcuseReasons[i] = core.CleanString(r)
	}
	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	if !np.EffectiveTo.IsZero() && np.EffectiveTo.Before(np.EffectiveFrom) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "effective_to", Error: "must not precede effective_from",
		})
	}
	return nil
}

// RetirePolicy closes a policy's effective window. This is the only mutation
// allowed on a policy already referenced by reports.
type RetirePolicy struct {
	EffectiveTo time.Time `json:"effective_to" validate:"required"`
}

func (rp RetirePolicy) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Scope    string `query:"scope"`
	SchoolID string `query:"school_id"`
	ClassID  string `query:"class_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Scope == "" && qf.SchoolID == "" && qf.ClassID == ""
}
