package attendance

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

func intPtr(i int) *int { return &i }

func testPolicy() policy.Policy {
	return policy.Policy{
		ID:                   "pol-1",
		Name:                 "Standard",
		Scope:                policy.ScopeGlobal,
		ConcernThreshold:     80,
		LateToleranceMinutes: 15,
		AutoExcuseEnabled:    true,
		AutoExcuseReasons:    []string{"Medical", "Family emergency"},
	}
}

func TestClassifyLateTolerance(t *testing.T) {
	pol := testPolicy()

	tests := []struct {
		name       string
		obs        Observation
		wantStatus string
		wantRule   string
	}{
		{
			name:       "at tolerance is present",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent, ArrivalMinutes: intPtr(15)},
			wantStatus: StatusPresent,
			wantRule:   "Present: 15min within 15min tolerance",
		},
		{
			name:       "one over tolerance is late",
			obs:        Observation{StudentID: "st1", Status: StatusPresent, ArrivalMinutes: intPtr(16)},
			wantStatus: StatusLate,
			wantRule:   "Late: 16min > 15min tolerance",
		},
		{
			name:       "on time keeps raw status",
			obs:        Observation{StudentID: "st1", Status: StatusPresent, ArrivalMinutes: intPtr(0)},
			wantStatus: StatusPresent,
		},
		{
			name:       "negative minutes are ignored",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent, ArrivalMinutes: intPtr(-5)},
			wantStatus: StatusAbsent,
		},
		{
			name:       "no arrival data keeps raw status",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent},
			wantStatus: StatusAbsent,
		},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := c.Classify(tt.obs, pol)
			if rec.Status != tt.wantStatus {
				t.Errorf("Classify() status = %s, want %s", rec.Status, tt.wantStatus)
			}
			if tt.wantRule == "" {
				if len(rec.AppliedRules) != 0 {
					t.Errorf("Classify() appliedRules = %v, want none", rec.AppliedRules)
				}
			} else if len(rec.AppliedRules) != 1 || rec.AppliedRules[0] != tt.wantRule {
				t.Errorf("Classify() appliedRules = %v, want [%s]", rec.AppliedRules, tt.wantRule)
			}
		})
	}
}

func TestClassifyAutoExcuse(t *testing.T) {
	pol := testPolicy()
	c := NewClassifier()

	tests := []struct {
		name       string
		obs        Observation
		enabled    bool
		wantStatus string
	}{
		{
			name:       "absent with matching reason is excused",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent, ExcuseReason: "medical appointment"},
			enabled:    true,
			wantStatus: StatusExcused,
		},
		{
			name:       "containment works both ways",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent, ExcuseReason: "family"},
			enabled:    true,
			wantStatus: StatusExcused,
		},
		{
			name:       "no match stays absent",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent, ExcuseReason: "overslept"},
			enabled:    true,
			wantStatus: StatusAbsent,
		},
		{
			name:       "disabled policy never excuses",
			obs:        Observation{StudentID: "st1", Status: StatusAbsent, ExcuseReason: "medical"},
			enabled:    false,
			wantStatus: StatusAbsent,
		},
		{
			name:       "present is never excused",
			obs:        Observation{StudentID: "st1", Status: StatusPresent, ExcuseReason: "medical"},
			enabled:    true,
			wantStatus: StatusPresent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pol
			p.AutoExcuseEnabled = tt.enabled
			rec := c.Classify(tt.obs, p)
			if rec.Status != tt.wantStatus {
				t.Errorf("Classify() status = %s, want %s", rec.Status, tt.wantStatus)
			}
		})
	}
}

func TestClassifyFirstMatchingReasonWins(t *testing.T) {
	pol := testPolicy()
	pol.AutoExcuseReasons = []string{"sick", "medical", "sick leave"}

	rec := NewClassifier().Classify(Observation{
		StudentID:    "st1",
		Status:       StatusAbsent,
		ExcuseReason: "sick leave for surgery",
	}, pol)

	if rec.Status != StatusExcused {
		t.Fatalf("Classify() status = %s, want %s", rec.Status, StatusExcused)
	}
	want := `Auto-excused: "sick leave for surgery" matches policy reason "sick"`
	if len(rec.AppliedRules) != 1 || rec.AppliedRules[0] != want {
		t.Errorf("Classify() appliedRules = %v, want [%s]", rec.AppliedRules, want)
	}
}

func TestClassifyCarriesPolicyAudit(t *testing.T) {
	rec := NewClassifier().Classify(Observation{StudentID: "st1", Status: StatusPresent}, testPolicy())
	want := "Policy: Standard (ID: pol-1)"
	if rec.Notes != want {
		t.Errorf("Classify() notes = %q, want %q", rec.Notes, want)
	}
	if rec.PolicyID != "pol-1" {
		t.Errorf("Classify() policyID = %q, want pol-1", rec.PolicyID)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	pol := testPolicy()
	obs := Observation{
		StudentID:      "st1",
		LessonID:       "l1",
		Status:         StatusAbsent,
		ArrivalMinutes: intPtr(20),
		ExcuseReason:   "medical",
	}

	c := NewClassifier()
	first, err := json.Marshal(c.Classify(obs, pol))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(c.Classify(obs, pol))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("Classify() not idempotent:\n first: %s\nsecond: %s", first, second)
	}
}

func TestContainsMatcher(t *testing.T) {
	tests := []struct {
		name              string
		submitted, reason string
		want              bool
	}{
		{name: "exact", submitted: "medical", reason: "medical", want: true},
		{name: "submitted contains reason", submitted: "medical appointment", reason: "medical", want: true},
		{name: "reason contains submitted", submitted: "medic", reason: "medical", want: true},
		{name: "no overlap", submitted: "traffic", reason: "medical", want: false},
		{name: "empty submitted", submitted: "", reason: "medical", want: false},
		{name: "empty reason", submitted: "medical", reason: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsMatcher(tt.submitted, tt.reason); got != tt.want {
				t.Errorf("ContainsMatcher(%q, %q) = %v, want %v", tt.submitted, tt.reason, got, tt.want)
			}
		})
	}
}

func TestSimilarityMatcherSwap(t *testing.T) {
	// typo that containment misses but similarity catches
	obs := Observation{StudentID: "st1", Status: StatusAbsent, ExcuseReason: "medcial"}
	pol := testPolicy()

	if rec := NewClassifier().Classify(obs, pol); rec.Status != StatusAbsent {
		t.Fatalf("containment matcher status = %s, want %s", rec.Status, StatusAbsent)
	}
	if rec := NewClassifier(SimilarityMatcher(0.8)).Classify(obs, pol); rec.Status != StatusExcused {
		t.Errorf("similarity matcher status = %s, want %s", rec.Status, StatusExcused)
	}
}
