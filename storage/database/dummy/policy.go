package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

type policyRepository struct {
	db *policyTable
}

var _ policy.Repository = (*policyRepository)(nil) // interface compliance check

func NewPolicyRepository(db *DB) *policyRepository {
	return &policyRepository{db: db.policy}
}

func (repo *policyRepository) query() []policy.Policy {
	pols := make([]policy.Policy, 0, len(repo.db.table))
	for _, pol := range repo.db.table {
		pols = append(pols, *pol)
	}
	sort.Slice(pols, func(i, j int) bool { return pols[i].ID < pols[j].ID })
	return pols
}

func (repo *policyRepository) CreatePolicy(ctx context.Context, pol policy.Policy) (policy.Policy, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pol.ID = uuid.New().String()
	repo.db.table[pol.ID] = &pol
	return pol, nil
}

func (repo *policyRepository) GetPolicyByID(ctx context.Context, id string) (policy.Policy, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pol, ok := repo.db.table[id]; ok {
		return *pol, nil
	}
	return policy.Policy{}, policy.ErrNotFound
}

func (repo *policyRepository) ListCandidatePolicies(ctx context.Context, classID, schoolID string) ([]policy.Policy, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var pols []policy.Policy
	for _, pol := range repo.query() {
		switch pol.Scope {
		case policy.ScopeGlobal:
			pols = append(pols, pol)
		case policy.ScopeSchool:
			if pol.ScopeSchoolID.String == schoolID {
				pols = append(pols, pol)
			}
		case policy.ScopeClass:
			if pol.ScopeClassID.String == classID {
				pols = append(pols, pol)
			}
		}
	}
	return pols, nil
}

func (repo *policyRepository) FilterPolicies(ctx context.Context, filter policy.QueryFilter) ([]policy.Policy, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	pols := repo.query()
	if filter.Scope != "" {
		var filtered []policy.Policy
		for _, pol := range pols {
			if pol.Scope == filter.Scope {
				filtered = append(filtered, pol)
			}
		}
		pols = filtered
	}
	if pols != nil && filter.SchoolID != "" {
		var filtered []policy.Policy
		for _, pol := range pols {
			if pol.ScopeSchoolID.String == filter.SchoolID {
				filtered = append(filtered, pol)
			}
		}
		pols = filtered
	}
	if pols != nil && filter.ClassID != "" {
		var filtered []policy.Policy
		for _, pol := range pols {
			if pol.ScopeClassID.String == filter.ClassID {
				filtered = append(filtered, pol)
			}
		}
		pols = filtered
	}
	return pols, nil
}

func (repo *policyRepository) RetirePolicyByID(ctx context.Context, id string, effectiveTo time.Time) (policy.Policy, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pol, ok := repo.db.table[id]
	if !ok {
		return policy.Policy{}, policy.ErrNotFound
	}
	pol.EffectiveTo.SetValid(effectiveTo)
	pol.UpdatedAt = time.Now().UTC()
	return *pol, nil
}
