package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
)

type financeRepository struct {
	db *financeTable
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *DB) *financeRepository {
	return &financeRepository{db: db.finance}
}

func (repo *financeRepository) CreateWageRecord(ctx context.Context, rec finance.WageRecord) (finance.WageRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec.ID = uuid.New().String()
	repo.db.wages[rec.ID] = &rec
	return rec, nil
}

func (repo *financeRepository) FilterWageRecords(ctx context.Context, filter finance.QueryFilter) ([]finance.WageRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var wages []finance.WageRecord
	for _, rec := range repo.db.wages {
		if filter.TeacherID != "" && rec.TeacherID != filter.TeacherID {
			continue
		}
		if !inPeriod(rec.Year, rec.Month, filter.From, filter.To) {
			continue
		}
		wages = append(wages, *rec)
	}
	sort.Slice(wages, func(i, j int) bool {
		if wages[i].Year != wages[j].Year {
			return wages[i].Year < wages[j].Year
		}
		if wages[i].Month != wages[j].Month {
			return wages[i].Month < wages[j].Month
		}
		return wages[i].TeacherID < wages[j].TeacherID
	})
	return wages, nil
}

func (repo *financeRepository) CreatePaymentRecord(ctx context.Context, rec finance.PaymentRecord) (finance.PaymentRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec.ID = uuid.New().String()
	repo.db.payments[rec.ID] = &rec
	return rec, nil
}

func (repo *financeRepository) FilterPaymentRecords(ctx context.Context, filter finance.QueryFilter) ([]finance.PaymentRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var payments []finance.PaymentRecord
	for _, rec := range repo.db.payments {
		if filter.SchoolID != "" && rec.SchoolID != filter.SchoolID {
			continue
		}
		if !inPeriod(rec.Year, rec.Month, filter.From, filter.To) {
			continue
		}
		payments = append(payments, *rec)
	}
	sort.Slice(payments, func(i, j int) bool {
		if payments[i].Year != payments[j].Year {
			return payments[i].Year < payments[j].Year
		}
		if payments[i].Month != payments[j].Month {
			return payments[i].Month < payments[j].Month
		}
		return payments[i].SchoolID < payments[j].SchoolID
	})
	return payments, nil
}

// inPeriod compares a record's (year, month) settlement period against the
// optional filter bounds.
func inPeriod(year, month int, from, to time.Time) bool {
	period := year*100 + month
	if !from.IsZero() && period < from.Year()*100+int(from.Month()) {
		return false
	}
	if !to.IsZero() && period > to.Year()*100+int(to.Month()) {
		return false
	}
	return true
}
