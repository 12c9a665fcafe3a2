package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type schoolRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r schoolRow) toCore() school.School {
	return school.School{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type classRow struct {
	ID        string    `db:"id"`
	SchoolID  string    `db:"school_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r classRow) toCore() school.Class {
	return school.Class{
		ID:        r.ID,
		SchoolID:  r.SchoolID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type studentRow struct {
	ID        string    `db:"id"`
	ClassID   string    `db:"class_id"`
	Name      string    `db:"name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r studentRow) toCore() school.Student {
	return school.Student{
		ID:        r.ID,
		ClassID:   r.ClassID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" to a core.NotFoundError.
func trapNoRowsErr(err error, entity, id, msg string) error {
	if err == sql.ErrNoRows {
		return core.NewNotFoundError(entity, id)
	}
	return errors.Wrap(err, msg)
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	sch.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO school (id, name, address, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sch.ID, sch.Name, sch.Address, sch.IsActive, sch.CreatedAt, sch.UpdatedAt,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return sch, nil
}

func (repo schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	var row schoolRow
	err := sqlx.GetContext(ctx, repo.db, &row, `SELECT * FROM school WHERE id = $1`, id)
	if err != nil {
		return school.School{}, trapNoRowsErr(err, "school", id, "getting school")
	}
	return row.toCore(), nil
}

func (repo schoolRepository) QueryAllSchools(ctx context.Context) ([]school.School, error) {
	var rows []schoolRow
	err := sqlx.SelectContext(ctx, repo.db, &rows, `SELECT * FROM school ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	out := make([]school.School, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (repo schoolRepository) CreateClass(ctx context.Context, cls school.Class) (school.Class, error) {
	cls.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO class (id, school_id, name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		cls.ID, cls.SchoolID, cls.Name, cls.IsActive, cls.CreatedAt, cls.UpdatedAt,
	)
	if err != nil {
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo schoolRepository) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	var row classRow
	err := sqlx.GetContext(ctx, repo.db, &row, `SELECT * FROM class WHERE id = $1`, id)
	if err != nil {
		return school.Class{}, trapNoRowsErr(err, "class", id, "getting class")
	}
	return row.toCore(), nil
}

func (repo schoolRepository) QueryClassesBySchool(ctx context.Context, schoolID string) ([]school.Class, error) {
	var rows []classRow
	err := sqlx.SelectContext(ctx, repo.db, &rows,
		`SELECT * FROM class WHERE school_id = $1 ORDER BY name`, schoolID)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	out := make([]school.Class, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (repo schoolRepository) CreateStudent(ctx context.Context, std school.Student) (school.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, class_id, name, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		std.ID, std.ClassID, std.Name, std.IsActive, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	var row studentRow
	err := sqlx.GetContext(ctx, repo.db, &row, `SELECT * FROM student WHERE id = $1`, id)
	if err != nil {
		return school.Student{}, trapNoRowsErr(err, "student", id, "getting student")
	}
	return row.toCore(), nil
}

// ClassExists and SchoolExists satisfy policy.Directory for the resolver.

func (repo schoolRepository) ClassExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, repo.db, &exists,
		`SELECT EXISTS (SELECT 1 FROM class WHERE id = $1)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking class")
	}
	return exists, nil
}

func (repo schoolRepository) SchoolExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, repo.db, &exists,
		`SELECT EXISTS (SELECT 1 FROM school WHERE id = $1)`, id)
	if err != nil {
		return false, errors.Wrap(err, "checking school")
	}
	return exists, nil
}

func (repo schoolRepository) ListActiveStudentIDs(ctx context.Context, classID string) (map[string]struct{}, error) {
	var ids []string
	err := sqlx.SelectContext(ctx, repo.db, &ids,
		`SELECT id FROM student WHERE class_id = $1 AND is_active`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "listing roster")
	}
	roster := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		roster[id] = struct{}{}
	}
	return roster, nil
}
