package finance

import "github.com/shopspring/decimal"

type (
	// WageAnalytics summarizes the wage records of a period. All sums stay in
	// fixed-point decimals; callers round only for display.
	WageAnalytics struct {
		TotalAmount     decimal.Decimal `json:"total_amount"`
		TotalPaid       decimal.Decimal `json:"total_paid"`
		TotalPending    decimal.Decimal `json:"total_pending"`
		TotalOverdue    decimal.Decimal `json:"total_overdue"`
		TotalHours      decimal.Decimal `json:"total_hours"`
		MeanHourlyRate  decimal.Decimal `json:"mean_hourly_rate"` // simple mean, not hour-weighted
		TeacherCount    int             `json:"teacher_count"`    // distinct teachers
		RecordCount     int             `json:"record_count"`
	}

	// PaymentAnalytics mirrors WageAnalytics for school payments, with
	// AgreedAmount in place of TotalAmount.
	PaymentAnalytics struct {
		TotalAgreed  decimal.Decimal `json:"total_agreed"`
		TotalPaid    decimal.Decimal `json:"total_paid"`
		TotalPending decimal.Decimal `json:"total_pending"`
		TotalOverdue decimal.Decimal `json:"total_overdue"`
		SchoolCount  int             `json:"school_count"` // distinct schools
		RecordCount  int             `json:"record_count"`
	}

	// Summary relates income to expenses. Only produced when both wage and
	// payment records were aggregated.
	Summary struct {
		TotalIncome            decimal.Decimal `json:"total_income"`
		TotalExpenses          decimal.Decimal `json:"total_expenses"`
		NetResult              decimal.Decimal `json:"net_result"`
		NetMargin              decimal.Decimal `json:"net_margin"` // percentage; 0 when income is 0
		OutstandingReceivables decimal.Decimal `json:"outstanding_receivables"`
		OutstandingPayables    decimal.Decimal `json:"outstanding_payables"`
		NetOutstanding         decimal.Decimal `json:"net_outstanding"`
	}

	Analysis struct {
		Wages    *WageAnalytics    `json:"wages,omitempty"`
		Payments *PaymentAnalytics `json:"payments,omitempty"`
		Summary  *Summary          `json:"summary,omitempty"`
	}
)

var hundred = decimal.NewFromInt(100)

// Aggregate produces wage and payment analytics plus, when both sides are
// present, the net-result summary. Pure and deterministic.
func Aggregate(wages []WageRecord, payments []PaymentRecord) Analysis {
	var a Analysis
	if wages != nil {
		wa := aggregateWages(wages)
		a.Wages = &wa
	}
	if payments != nil {
		pa := aggregatePayments(payments)
		a.Payments = &pa
	}
	if a.Wages != nil && a.Payments != nil {
		a.Summary = summarize(*a.Wages, *a.Payments)
	}
	return a
}

func aggregateWages(wages []WageRecord) WageAnalytics {
	wa := WageAnalytics{RecordCount: len(wages)}
	teachers := make(map[string]struct{})
	rateSum := decimal.Zero

	for _, w := range wages {
		wa.TotalAmount = wa.TotalAmount.Add(w.TotalAmount)
		wa.TotalPaid = wa.TotalPaid.Add(w.PaidAmount)
		wa.TotalHours = wa.TotalHours.Add(w.TotalHours)
		rateSum = rateSum.Add(w.HourlyRate)
		switch w.Status {
		case StatusPending:
			wa.TotalPending = wa.TotalPending.Add(w.TotalAmount)
		case StatusOverdue:
			wa.TotalOverdue = wa.TotalOverdue.Add(w.TotalAmount)
		}
		teachers[w.TeacherID] = struct{}{}
	}

	wa.TeacherCount = len(teachers)
	if len(wages) > 0 {
		wa.MeanHourlyRate = rateSum.Div(decimal.NewFromInt(int64(len(wages))))
	}
	return wa
}

func aggregatePayments(payments []PaymentRecord) PaymentAnalytics {
	pa := PaymentAnalytics{RecordCount: len(payments)}
	schools := make(map[string]struct{})

	for _, p := range payments {
		pa.TotalAgreed = pa.TotalAgreed.Add(p.AgreedAmount)
		pa.TotalPaid = pa.TotalPaid.Add(p.PaidAmount)
		switch p.Status {
		case StatusPending:
			pa.TotalPending = pa.TotalPending.Add(p.AgreedAmount)
		case StatusOverdue:
			pa.TotalOverdue = pa.TotalOverdue.Add(p.AgreedAmount)
		}
		schools[p.SchoolID] = struct{}{}
	}

	pa.SchoolCount = len(schools)
	return pa
}

func summarize(wa WageAnalytics, pa PaymentAnalytics) *Summary {
	s := &Summary{
		TotalIncome:            pa.TotalPaid,
		TotalExpenses:          wa.TotalPaid,
		OutstandingReceivables: pa.TotalPending,
		OutstandingPayables:    wa.TotalPending,
	}
	s.NetResult = s.TotalIncome.Sub(s.TotalExpenses)
	s.NetOutstanding = s.OutstandingReceivables.Sub(s.OutstandingPayables)
	if !s.TotalIncome.IsZero() {
		s.NetMargin = s.NetResult.Div(s.TotalIncome).Mul(hundred)
	}
	return s
}
