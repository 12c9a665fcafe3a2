package finance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// errors
	ErrNotFound = errors.New("financial record not found")
)

type (
	Repository interface {
		CreateWageRecord(ctx context.Context, rec WageRecord) (WageRecord, error)
		FilterWageRecords(ctx context.Context, filter QueryFilter) ([]WageRecord, error)

		CreatePaymentRecord(ctx context.Context, rec PaymentRecord) (PaymentRecord, error)
		FilterPaymentRecords(ctx context.Context, filter QueryFilter) ([]PaymentRecord, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateWage(ctx context.Context, nw NewWageRecord) (WageRecord, error) {
	now := time.Now().UTC()
	hours := decimal.NewFromFloat(nw.TotalHours)
	rate := decimal.NewFromFloat(nw.HourlyRate)
	return svc.repo.CreateWageRecord(ctx, WageRecord{
		TeacherID:   nw.TeacherID,
		Month:       nw.Month,
		Year:        nw.Year,
		TotalHours:  hours,
		HourlyRate:  rate,
		TotalAmount: hours.Mul(rate),
		PaidAmount:  decimal.NewFromFloat(nw.PaidAmount),
		Status:      nw.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) CreatePayment(ctx context.Context, np NewPaymentRecord) (PaymentRecord, error) {
	now := time.Now().UTC()
	return svc.repo.CreatePaymentRecord(ctx, PaymentRecord{
		SchoolID:     np.SchoolID,
		Month:        np.Month,
		Year:         np.Year,
		AgreedAmount: decimal.NewFromFloat(np.AgreedAmount),
		PaidAmount:   decimal.NewFromFloat(np.PaidAmount),
		Status:       np.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Analyze aggregates the wage and/or payment records matching the filter.
// Either side can be skipped; the summary is only produced when both ran.
func (svc *Service) Analyze(ctx context.Context, filter QueryFilter, includeWages, includePayments bool) (Analysis, error) {
	var wages []WageRecord
	var payments []PaymentRecord
	var err error

	if includeWages {
		if wages, err = svc.repo.FilterWageRecords(ctx, filter); err != nil {
			return Analysis{}, err
		}
		if wages == nil {
			wages = []WageRecord{}
		}
	}
	if includePayments {
		if payments, err = svc.repo.FilterPaymentRecords(ctx, filter); err != nil {
			return Analysis{}, err
		}
		if payments == nil {
			payments = []PaymentRecord{}
		}
	}
	return Aggregate(wages, payments), nil
}
