package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
)

type financeRepository struct {
	db *sqlx.DB
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *sqlx.DB) *financeRepository {
	return &financeRepository{db: db}
}

type wageRow struct {
	ID          string          `db:"id"`
	TeacherID   string          `db:"teacher_id"`
	Month       int             `db:"month"`
	Year        int             `db:"year"`
	TotalHours  decimal.Decimal `db:"total_hours"`
	HourlyRate  decimal.Decimal `db:"hourly_rate"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	PaidAmount  decimal.Decimal `db:"paid_amount"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r wageRow) toCore() finance.WageRecord {
	return finance.WageRecord{
		ID:          r.ID,
		TeacherID:   r.TeacherID,
		Month:       r.Month,
		Year:        r.Year,
		TotalHours:  r.TotalHours,
		HourlyRate:  r.HourlyRate,
		TotalAmount: r.TotalAmount,
		PaidAmount:  r.PaidAmount,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type paymentRow struct {
	ID           string          `db:"id"`
	SchoolID     string          `db:"school_id"`
	Month        int             `db:"month"`
	Year         int             `db:"year"`
	AgreedAmount decimal.Decimal `db:"agreed_amount"`
	PaidAmount   decimal.Decimal `db:"paid_amount"`
	Status       string          `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r paymentRow) toCore() finance.PaymentRecord {
	return finance.PaymentRecord{
		ID:           r.ID,
		SchoolID:     r.SchoolID,
		Month:        r.Month,
		Year:         r.Year,
		AgreedAmount: r.AgreedAmount,
		PaidAmount:   r.PaidAmount,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (repo financeRepository) CreateWageRecord(ctx context.Context, rec finance.WageRecord) (finance.WageRecord, error) {
	rec.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO wage_record (
			id, teacher_id, month, year, total_hours, hourly_rate,
			total_amount, paid_amount, status, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.TeacherID, rec.Month, rec.Year, rec.TotalHours, rec.HourlyRate,
		rec.TotalAmount, rec.PaidAmount, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return finance.WageRecord{}, errors.Wrap(err, "inserting wage record")
	}
	return rec, nil
}

func (repo financeRepository) FilterWageRecords(ctx context.Context, filter finance.QueryFilter) ([]finance.WageRecord, error) {
	q := `SELECT * FROM wage_record WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		q += ` AND teacher_id = $` + itoa(len(args))
	}
	q, args = appendPeriodBounds(q, args, filter.From, filter.To)
	q += ` ORDER BY year, month, teacher_id`

	var rows []wageRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying wage records")
	}
	out := make([]finance.WageRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

func (repo financeRepository) CreatePaymentRecord(ctx context.Context, rec finance.PaymentRecord) (finance.PaymentRecord, error) {
	rec.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO payment_record (
			id, school_id, month, year, agreed_amount, paid_amount,
			status, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.SchoolID, rec.Month, rec.Year, rec.AgreedAmount, rec.PaidAmount,
		rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return finance.PaymentRecord{}, errors.Wrap(err, "inserting payment record")
	}
	return rec, nil
}

func (repo financeRepository) FilterPaymentRecords(ctx context.Context, filter finance.QueryFilter) ([]finance.PaymentRecord, error) {
	q := `SELECT * FROM payment_record WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if filter.SchoolID != "" {
		args = append(args, filter.SchoolID)
		q += ` AND school_id = $` + itoa(len(args))
	}
	q, args = appendPeriodBounds(q, args, filter.From, filter.To)
	q += ` ORDER BY year, month, school_id`

	var rows []paymentRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying payment records")
	}
	out := make([]finance.PaymentRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toCore())
	}
	return out, nil
}

// appendPeriodBounds constrains the (year, month) settlement period. Records
// carry no day-level date, so bounds compare against year*100+month.
func appendPeriodBounds(q string, args []interface{}, from, to time.Time) (string, []interface{}) {
	if !from.IsZero() {
		args = append(args, from.Year()*100+int(from.Month()))
		q += ` AND (year * 100 + month) >= $` + itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to.Year()*100+int(to.Month()))
		q += ` AND (year * 100 + month) <= $` + itoa(len(args))
	}
	return q, args
}
