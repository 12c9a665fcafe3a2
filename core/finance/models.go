package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
)

// Settlement statuses
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusOverdue = "OVERDUE"
)

// ValidStatus reports whether s is a supported settlement status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	default:
		return false
	}
}

// WageRecord is one teacher's wage line for a month. TotalAmount is always
// TotalHours x HourlyRate; the store persists it denormalized for reporting.
type WageRecord struct {
	ID          string          `json:"id"`
	TeacherID   string          `json:"teacher_id"`
	Month       int             `json:"month"` // 1-12
	Year        int             `json:"year"`
	TotalHours  decimal.Decimal `json:"total_hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"` // UTC
	UpdatedAt   time.Time       `json:"updated_at"` // UTC
}

// PaymentRecord is one school's invoice line for a month.
type PaymentRecord struct {
	ID           string          `json:"id"`
	SchoolID     string          `json:"school_id"`
	Month        int             `json:"month"` // 1-12
	Year         int             `json:"year"`
	AgreedAmount decimal.Decimal `json:"agreed_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"` // UTC
	UpdatedAt    time.Time       `json:"updated_at"` // UTC
}

// NewWageRecord contains information needed to record a teacher's monthly wage.
type NewWageRecord struct {
	TeacherID  string  `json:"teacher_id" validate:"required"`
	Month      int     `json:"month" validate:"gte=1,lte=12"`
	Year       int     `json:"year" validate:"gte=2000"`
	TotalHours float64 `json:"total_hours" validate:"gt=0"`
	HourlyRate float64 `json:"hourly_rate" validate:"gt=0"`
	PaidAmount float64 `json:"paid_amount" validate:"gte=0"`
	Status     string  `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

func (nw NewWageRecord) Validate() error { return core.Validate.Struct(nw) }

// NewPaymentRecord contains information needed to record a school's monthly payment.
type NewPaymentRecord struct {
	SchoolID     string  `json:"school_id" validate:"required"`
	Month        int     `json:"month" validate:"gte=1,lte=12"`
	Year         int     `json:"year" validate:"gte=2000"`
	AgreedAmount float64 `json:"agreed_amount" validate:"gt=0"`
	PaidAmount   float64 `json:"paid_amount" validate:"gte=0"`
	Status       string  `json:"status" validate:"required,oneof=PENDING PAID OVERDUE"`
}

func (np NewPaymentRecord) Validate() error { return core.Validate.Struct(np) }

type QueryFilter struct {
	TeacherID string    `query:"teacher_id"`
	SchoolID  string    `query:"school_id"`
	From      time.Time `query:"from"`
	To        time.Time `query:"to"`
}
