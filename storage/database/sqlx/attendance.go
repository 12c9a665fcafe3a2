package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

type lessonRow struct {
	ID          string    `db:"id"`
	ClassID     string    `db:"class_id"`
	TeacherID   string    `db:"teacher_id"`
	Date        time.Time `db:"date"`
	HoursWorked float64   `db:"hours_worked"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r lessonRow) toCore() attendance.Lesson {
	return attendance.Lesson{
		ID:          r.ID,
		ClassID:     r.ClassID,
		TeacherID:   r.TeacherID,
		Date:        r.Date,
		HoursWorked: r.HoursWorked,
		CreatedAt:   r.CreatedAt,
	}
}

type recordRow struct {
	ID           string         `db:"id"`
	StudentID    string         `db:"student_id"`
	LessonID     string         `db:"lesson_id"`
	Status       string         `db:"status"`
	PolicyID     string         `db:"policy_id"`
	AppliedRules pq.StringArray `db:"applied_rules"`
	Notes        string         `db:"notes"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r recordRow) toCore() attendance.Record {
	return attendance.Record{
		ID:           r.ID,
		StudentID:    r.StudentID,
		LessonID:     r.LessonID,
		Status:       r.Status,
		PolicyID:     r.PolicyID,
		AppliedRules: r.AppliedRules,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
}

func (repo attendanceRepository) CreateLesson(ctx context.Context, lesson attendance.Lesson) (attendance.Lesson, error) {
	lesson.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO lesson (id, class_id, teacher_id, date, hours_worked, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		lesson.ID, lesson.ClassID, lesson.TeacherID, lesson.Date, lesson.HoursWorked, lesson.CreatedAt,
	)
	if err != nil {
		return attendance.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return lesson, nil
}

func (repo attendanceRepository) GetLessonByID(ctx context.Context, id string) (attendance.Lesson, error) {
	var row lessonRow
	err := sqlx.GetContext(ctx, repo.db, &row, `SELECT * FROM lesson WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return attendance.Lesson{}, attendance.ErrLessonNotFound
		}
		return attendance.Lesson{}, errors.Wrap(err, "getting lesson")
	}
	return row.toCore(), nil
}

func (repo attendanceRepository) QueryLessons(ctx context.Context, filter attendance.LessonFilter) ([]attendance.Lesson, error) {
	q := `SELECT lesson.* FROM lesson`
	args := make([]interface{}, 0, 4)
	if filter.SchoolID != "" {
		q += ` JOIN class ON class.id = lesson.class_id`
	}
	q += ` WHERE 1=1`
	if filter.ClassID != "" {
		args = append(args, filter.ClassID)
		q += ` AND lesson.class_id = $` + itoa(len(args))
	}
	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		q += ` AND class.school_id = $` + itoa(len(args))
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		q += ` AND lesson.date >= $` + itoa(len(args))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		q += ` AND lesson.date <= $` + itoa(len(args))
	}
	q += lessonOrderBy(filter.Orderings)

	var rows []lessonRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	out := make([]attendance.Lesson, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

// lessonOrderableFields whitelists caller-supplied ordering fields.
var lessonOrderableFields = map[string]struct{}{
	"date":       {},
	"class_id":   {},
	"teacher_id": {},
	"created_at": {},
}

func lessonOrderBy(orderings []core.DBOrdering) string {
	terms := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		if _, ok := lessonOrderableFields[ord.Field]; ok {
			terms = append(terms, "lesson."+ord.String())
		}
	}
	if len(terms) == 0 {
		return ` ORDER BY lesson.date, lesson.id`
	}
	return ` ORDER BY ` + strings.Join(terms, ", ") + `, lesson.id`
}

// CreateRecords writes one lesson's batch inside a single transaction: either
// every record commits or none do.
func (repo attendanceRepository) CreateRecords(ctx context.Context, records []attendance.Record) ([]attendance.Record, error) {
	if len(records) == 0 {
		return nil, nil
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	out := make([]attendance.Record, 0, len(records))
	for _, rec := range records {
		rec.ID = uuid.New().String()
		rec.CreatedAt = now
		_, err := tx.ExecContext(ctx,
			`INSERT INTO attendance_record (
				id, student_id, lesson_id, status, policy_id, applied_rules, notes, created_at
			 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			rec.ID, rec.StudentID, rec.LessonID, rec.Status, rec.PolicyID,
			pq.StringArray(rec.AppliedRules), rec.Notes, rec.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "inserting attendance record")
		}
		out = append(out, rec)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "committing attendance batch")
	}
	return out, nil
}

func (repo attendanceRepository) HasRecordsForLesson(ctx context.Context, lessonID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, repo.db, &exists,
		`SELECT EXISTS (SELECT 1 FROM attendance_record WHERE lesson_id = $1)`, lessonID)
	if err != nil {
		return false, errors.Wrap(err, "checking lesson records")
	}
	return exists, nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, error) {
	q := `SELECT * FROM attendance_record WHERE 1=1`
	args := make([]interface{}, 0, 2)
	if len(filter.LessonIDs) > 0 {
		args = append(args, pq.Array(filter.LessonIDs))
		q += ` AND lesson_id = ANY($` + itoa(len(args)) + `)`
	}
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		q += ` AND student_id = $` + itoa(len(args))
	}
	q += ` ORDER BY lesson_id, student_id`

	var rows []recordRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}
	out := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}
