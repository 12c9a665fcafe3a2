package policy

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound = errors.New("policy not found")
)

type (
	Repository interface {
		CreatePolicy(ctx context.Context, pol Policy) (Policy, error)
		GetPolicyByID(ctx context.Context, id string) (Policy, error)
		// ListCandidatePolicies returns all policies that scope-match the
		// (class, school) pair: CLASS-scoped to classID, SCHOOL-scoped to
		// schoolID and every GLOBAL policy. No time filtering.
		ListCandidatePolicies(ctx context.Context, classID, schoolID string) ([]Policy, error)
		FilterPolicies(ctx context.Context, filter QueryFilter) ([]Policy, error)
		RetirePolicyByID(ctx context.Context, id string, effectiveTo time.Time) (Policy, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, np NewPolicy) (Policy, error) {
	now := time.Now().UTC()
	pol := Policy{
		Name:                 np.Name,
		Scope:                np.Scope,
		ConcernThreshold:     np.ConcernThreshold,
		LateToleranceMinutes: np.LateToleranceMinutes,
		MaxAbsences:          np.MaxAbsences,
		AutoExcuseEnabled:    np.AutoExcuseEnabled,
		AutoExcuseReasons:    np.AutoExcuseReasons,
		EffectiveFrom:        np.EffectiveFrom.UTC(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	switch np.Scope {
	case ScopeSchool:
		pol.ScopeSchoolID = null.StringFrom(np.ScopeSchoolID)
	case ScopeClass:
		pol.ScopeClassID = null.StringFrom(np.ScopeClassID)
	}
	if !np.EffectiveTo.IsZero() {
		pol.EffectiveTo = null.TimeFrom(np.EffectiveTo.UTC())
	}
	return svc.repo.CreatePolicy(ctx, pol)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Policy, error) {
	return svc.repo.GetPolicyByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Policy, error) {
	return svc.repo.FilterPolicies(ctx, filter)
}

// Retire soft-deletes a policy by closing its effective window. Policies are
// never physically deleted while historical reports may reference them.
func (svc *Service) Retire(ctx context.Context, id string, rp RetirePolicy) (Policy, error) {
	return svc.repo.RetirePolicyByID(ctx, id, rp.EffectiveTo.UTC())
}
