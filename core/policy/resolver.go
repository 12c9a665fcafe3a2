package policy

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
)

type (
	// Directory is the slice of the school store the resolver needs: existence
	// checks for the class/school a resolution targets.
	Directory interface {
		ClassExists(ctx context.Context, classID string) (bool, error)
		SchoolExists(ctx context.Context, schoolID string) (bool, error)
	}

	// Resolver picks the single effective policy for a class at a point in
	// time. Resolution is a pure function of (classID, schoolID, at, policy
	// set): no side effects, deterministic, idempotent.
	Resolver struct {
		repo Repository
		dir  Directory
	}
)

func NewResolver(repo Repository, dir Directory) *Resolver {
	return &Resolver{repo: repo, dir: dir}
}

// Resolve returns the effective policy for (classID, schoolID) at `at`.
// Candidates are filtered to those whose effective window contains `at`, then
// ranked by scope precedence (CLASS > SCHOOL > GLOBAL) and, within a scope, by
// latest EffectiveFrom. When nothing matches, the hard-coded default applies;
// absence of an administrator-defined policy is never an error.
func (r *Resolver) Resolve(ctx context.Context, classID, schoolID string, at time.Time) (Policy, error) {
	if err := r.checkTargets(ctx, classID, schoolID); err != nil {
		return Policy{}, err
	}

	candidates, err := r.repo.ListCandidatePolicies(ctx, classID, schoolID)
	if err != nil {
		return Policy{}, errors.Wrap(err, "listing candidate policies")
	}

	return pickEffective(candidates, at), nil
}

func (r *Resolver) checkTargets(ctx context.Context, classID, schoolID string) error {
	ok, err := r.dir.ClassExists(ctx, classID)
	if err != nil {
		return errors.Wrap(err, "checking class")
	}
	if !ok {
		return core.NewNotFoundError("class", classID)
	}
	ok, err = r.dir.SchoolExists(ctx, schoolID)
	if err != nil {
		return errors.Wrap(err, "checking school")
	}
	if !ok {
		return core.NewNotFoundError("school", schoolID)
	}
	return nil
}

// pickEffective ranks the effective candidates and returns the winner, or the
// default policy when none survive the window filter. The sort key includes the
// ID so the outcome stays deterministic even if two policies share a scope and
// an EffectiveFrom.
func pickEffective(candidates []Policy, at time.Time) Policy {
	effective := make([]Policy, 0, len(candidates))
	for _, p := range candidates {
		if p.EffectiveAt(at) {
			effective = append(effective, p)
		}
	}
	if len(effective) == 0 {
		return Default()
	}

	sort.Slice(effective, func(i, j int) bool {
		pi, pj := effective[i], effective[j]
		if ScopePriority(pi.Scope) != ScopePriority(pj.Scope) {
			return ScopePriority(pi.Scope) > ScopePriority(pj.Scope)
		}
		if !pi.EffectiveFrom.Equal(pj.EffectiveFrom) {
			return pi.EffectiveFrom.After(pj.EffectiveFrom)
		}
		return pi.ID < pj.ID
	})
	return effective[0]
}
