package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

type policyRepository struct {
	db *sqlx.DB
}

var _ policy.Repository = (*policyRepository)(nil) // interface compliance check

func NewPolicyRepository(db *sqlx.DB) *policyRepository {
	return &policyRepository{db: db}
}

type policyRow struct {
	ID                   string         `db:"id"`
	Name                 string         `db:"name"`
	Scope                string         `db:"scope"`
	ScopeSchoolID        null.String    `db:"scope_school_id"`
	ScopeClassID         null.String    `db:"scope_class_id"`
	ConcernThreshold     float64        `db:"concern_threshold"`
	LateToleranceMinutes int            `db:"late_tolerance_minutes"`
	MaxAbsences          int            `db:"max_absences"`
	AutoExcuseEnabled    bool           `db:"auto_excuse_enabled"`
	AutoExcuseReasons    pq.StringArray `db:"auto_excuse_reasons"`
	EffectiveFrom        time.Time      `db:"effective_from"`
	EffectiveTo          null.Time      `db:"effective_to"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func (r policyRow) toCore() policy.Policy {
	return policy.Policy{
		ID:                   r.ID,
		Name:                 r.Name,
		Scope:                r.Scope,
		ScopeSchoolID:        r.ScopeSchoolID,
		ScopeClassID:         r.ScopeClassID,
		ConcernThreshold:     r.ConcernThreshold,
		LateToleranceMinutes: r.LateToleranceMinutes,
		MaxAbsences:          r.MaxAbsences,
		AutoExcuseEnabled:    r.AutoExcuseEnabled,
		AutoExcuseReasons:    r.AutoExcuseReasons,
		EffectiveFrom:        r.EffectiveFrom,
		EffectiveTo:          r.EffectiveTo,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func toPolicySlice(rows []policyRow) []policy.Policy {
	out := make([]policy.Policy, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out
}

func (repo policyRepository) CreatePolicy(ctx context.Context, pol policy.Policy) (policy.Policy, error) {
	pol.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO policy (
			id, name, scope, scope_school_id, scope_class_id,
			concern_threshold, late_tolerance_minutes, max_absences,
			auto_excuse_enabled, auto_excuse_reasons,
			effective_from, effective_to, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		pol.ID, pol.Name, pol.Scope, pol.ScopeSchoolID, pol.ScopeClassID,
		pol.ConcernThreshold, pol.LateToleranceMinutes, pol.MaxAbsences,
		pol.AutoExcuseEnabled, pq.StringArray(pol.AutoExcuseReasons),
		pol.EffectiveFrom, pol.EffectiveTo, pol.CreatedAt, pol.UpdatedAt,
	)
	if err != nil {
		return policy.Policy{}, errors.Wrap(err, "inserting policy")
	}
	return pol, nil
}

func (repo policyRepository) GetPolicyByID(ctx context.Context, id string) (policy.Policy, error) {
	var row policyRow
	err := sqlx.GetContext(ctx, repo.db, &row, `SELECT * FROM policy WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return policy.Policy{}, policy.ErrNotFound
		}
		return policy.Policy{}, errors.Wrap(err, "getting policy")
	}
	return row.toCore(), nil
}

func (repo policyRepository) ListCandidatePolicies(ctx context.Context, classID, schoolID string) ([]policy.Policy, error) {
	var rows []policyRow
	err := sqlx.SelectContext(ctx, repo.db, &rows,
		`SELECT * FROM policy
		 WHERE (scope = 'CLASS' AND scope_class_id = $1)
		    OR (scope = 'SCHOOL' AND scope_school_id = $2)
		    OR scope = 'GLOBAL'
		 ORDER BY effective_from DESC, id`,
		classID, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "listing candidate policies")
	}
	return toPolicySlice(rows), nil
}

func (repo policyRepository) FilterPolicies(ctx context.Context, filter policy.QueryFilter) ([]policy.Policy, error) {
	q := `SELECT * FROM policy WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.Scope != "" {
		args = append(args, filter.Scope)
		q += ` AND scope = $` + itoa(len(args))
	}
	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		q += ` AND scope_school_id = $` + itoa(len(args))
	}
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		q += ` AND scope_class_id = $` + itoa(len(args))
	}
	q += ` ORDER BY effective_from DESC, id`

	var rows []policyRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering policies")
	}
	return toPolicySlice(rows), nil
}

func (repo policyRepository) RetirePolicyByID(ctx context.Context, id string, effectiveTo time.Time) (policy.Policy, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE policy SET effective_to = $2, updated_at = $3 WHERE id = $1`,
		id, effectiveTo, time.Now().UTC())
	if err != nil {
		return policy.Policy{}, errors.Wrap(err, "retiring policy")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return policy.Policy{}, policy.ErrNotFound
	}
	return repo.GetPolicyByID(ctx, id)
}
