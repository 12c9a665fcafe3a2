package policy

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
)

type fakeRepo struct {
	Repository
	candidates []Policy
}

func (r fakeRepo) ListCandidatePolicies(ctx context.Context, classID, schoolID string) ([]Policy, error) {
	return r.candidates, nil
}

type fakeDir struct {
	classes map[string]bool
	schools map[string]bool
}

func (d fakeDir) ClassExists(ctx context.Context, id string) (bool, error)  { return d.classes[id], nil }
func (d fakeDir) SchoolExists(ctx context.Context, id string) (bool, error) { return d.schools[id], nil }

var testDir = fakeDir{
	classes: map[string]bool{"c1": true},
	schools: map[string]bool{"s1": true},
}

func mkPolicy(id, scope string, from time.Time, to *time.Time) Policy {
	p := Policy{
		ID:                   id,
		Name:                 "P " + id,
		Scope:                scope,
		ConcernThreshold:     75,
		LateToleranceMinutes: 10,
		EffectiveFrom:        from,
	}
	if to != nil {
		p.EffectiveTo = null.TimeFrom(*to)
	}
	return p
}

func TestResolverPrecedence(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	from := at.Add(-30 * 24 * time.Hour)

	classPol := mkPolicy("p-class", ScopeClass, from, nil)
	schoolPol := mkPolicy("p-school", ScopeSchool, from, nil)
	globalPol := mkPolicy("p-global", ScopeGlobal, from, nil)

	tests := []struct {
		name       string
		candidates []Policy
		wantID     string
	}{
		{name: "class beats global", candidates: []Policy{globalPol, classPol}, wantID: "p-class"},
		{name: "class beats global, reordered", candidates: []Policy{classPol, globalPol}, wantID: "p-class"},
		{name: "class beats school and global", candidates: []Policy{schoolPol, globalPol, classPol}, wantID: "p-class"},
		{name: "school beats global", candidates: []Policy{globalPol, schoolPol}, wantID: "p-school"},
		{name: "global only", candidates: []Policy{globalPol}, wantID: "p-global"},
		{
			name: "latest effectiveFrom wins within scope",
			candidates: []Policy{
				mkPolicy("p-old", ScopeGlobal, from.Add(-365*24*time.Hour), nil),
				mkPolicy("p-new", ScopeGlobal, from, nil),
			},
			wantID: "p-new",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(fakeRepo{candidates: tt.candidates}, testDir)
			got, err := r.Resolve(ctx, "c1", "s1", at)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestResolverWindowBoundaries(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	openEnded := mkPolicy("p-open", ScopeGlobal, from, nil)
	closed := mkPolicy("p-closed", ScopeGlobal, from, &to)

	tests := []struct {
		name      string
		candidate Policy
		at        time.Time
		wantID    string // "default" when the window misses
	}{
		{name: "matches at exactly effectiveFrom", candidate: openEnded, at: from, wantID: "p-open"},
		{name: "matches long after effectiveFrom", candidate: openEnded, at: from.AddDate(10, 0, 0), wantID: "p-open"},
		{name: "misses before effectiveFrom", candidate: openEnded, at: from.Add(-time.Millisecond), wantID: "default"},
		{name: "matches at exactly effectiveTo", candidate: closed, at: to, wantID: "p-closed"},
		{name: "misses 1ms after effectiveTo", candidate: closed, at: to.Add(time.Millisecond), wantID: "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(fakeRepo{candidates: []Policy{tt.candidate}}, testDir)
			got, err := r.Resolve(ctx, "c1", "s1", tt.at)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Resolve() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestResolverDefaultFallback(t *testing.T) {
	r := NewResolver(fakeRepo{}, testDir)
	got, err := r.Resolve(context.Background(), "c1", "s1", time.Now().UTC())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := Default()
	if got.ID != want.ID ||
		got.ConcernThreshold != 80 ||
		got.LateToleranceMinutes != 15 ||
		got.MaxAbsences != 20 ||
		got.AutoExcuseEnabled {
		t.Errorf("Resolve() = %+v, want default %+v", got, want)
	}
}

func TestResolverUnknownTargets(t *testing.T) {
	r := NewResolver(fakeRepo{}, testDir)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := r.Resolve(ctx, "nope", "s1", now); !core.IsNotFound(err) {
		t.Errorf("Resolve(unknown class) error = %v, want NotFoundError", err)
	}
	if _, err := r.Resolve(ctx, "c1", "nope", now); !core.IsNotFound(err) {
		t.Errorf("Resolve(unknown school) error = %v, want NotFoundError", err)
	}
}
