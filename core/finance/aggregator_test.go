package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func wage(teacherID, total, paid, hours, rate, status string) WageRecord {
	return WageRecord{
		TeacherID:   teacherID,
		TotalAmount: dec(total),
		PaidAmount:  dec(paid),
		TotalHours:  dec(hours),
		HourlyRate:  dec(rate),
		Status:      status,
	}
}

func payment(schoolID, agreed, paid, status string) PaymentRecord {
	return PaymentRecord{
		SchoolID:     schoolID,
		AgreedAmount: dec(agreed),
		PaidAmount:   dec(paid),
		Status:       status,
	}
}

func TestAggregateWages(t *testing.T) {
	wages := []WageRecord{
		wage("t1", "1500", "1500", "100", "15", StatusPaid),
		wage("t1", "1650", "0", "110", "15", StatusPending),
		wage("t2", "2500", "1000", "100", "25", StatusOverdue),
	}

	a := Aggregate(wages, nil)
	if a.Wages == nil || a.Payments != nil || a.Summary != nil {
		t.Fatalf("Aggregate(wages, nil) = %+v, want wages only", a)
	}

	wa := a.Wages
	tests := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"totalAmount", wa.TotalAmount, "5650"},
		{"totalPaid", wa.TotalPaid, "2500"},
		{"totalPending", wa.TotalPending, "1650"},
		{"totalOverdue", wa.TotalOverdue, "2500"},
		{"totalHours", wa.TotalHours, "310"},
		{"meanHourlyRate", wa.MeanHourlyRate, "18.3333333333333333"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(dec(tt.want)) {
				t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
			}
		})
	}
	if wa.TeacherCount != 2 {
		t.Errorf("teacherCount = %d, want 2 distinct", wa.TeacherCount)
	}
	if wa.RecordCount != 3 {
		t.Errorf("recordCount = %d, want 3", wa.RecordCount)
	}
}

func TestAggregatePayments(t *testing.T) {
	payments := []PaymentRecord{
		payment("s1", "5000", "5000", StatusPaid),
		payment("s1", "5000", "0", StatusPending),
		payment("s2", "3000", "0", StatusOverdue),
	}

	a := Aggregate(nil, payments)
	if a.Payments == nil || a.Wages != nil || a.Summary != nil {
		t.Fatalf("Aggregate(nil, payments) = %+v, want payments only", a)
	}

	pa := a.Payments
	if !pa.TotalAgreed.Equal(dec("13000")) {
		t.Errorf("totalAgreed = %s, want 13000", pa.TotalAgreed)
	}
	if !pa.TotalPaid.Equal(dec("5000")) {
		t.Errorf("totalPaid = %s, want 5000", pa.TotalPaid)
	}
	if !pa.TotalPending.Equal(dec("5000")) {
		t.Errorf("totalPending = %s, want 5000", pa.TotalPending)
	}
	if !pa.TotalOverdue.Equal(dec("3000")) {
		t.Errorf("totalOverdue = %s, want 3000", pa.TotalOverdue)
	}
	if pa.SchoolCount != 2 {
		t.Errorf("schoolCount = %d, want 2 distinct", pa.SchoolCount)
	}
}

func TestAggregateSummary(t *testing.T) {
	wages := []WageRecord{wage("t1", "7000", "7000", "350", "20", StatusPaid)}
	payments := []PaymentRecord{payment("s1", "10000", "10000", StatusPaid)}

	a := Aggregate(wages, payments)
	if a.Summary == nil {
		t.Fatal("Summary missing with both sides present")
	}

	s := a.Summary
	if !s.TotalIncome.Equal(dec("10000")) || !s.TotalExpenses.Equal(dec("7000")) {
		t.Errorf("income/expenses = %s/%s, want 10000/7000", s.TotalIncome, s.TotalExpenses)
	}
	if !s.NetResult.Equal(dec("3000")) {
		t.Errorf("netResult = %s, want 3000", s.NetResult)
	}
	if !s.NetMargin.Equal(dec("30")) {
		t.Errorf("netMargin = %s, want 30", s.NetMargin)
	}
}

func TestAggregateSummaryZeroIncome(t *testing.T) {
	wages := []WageRecord{wage("t1", "7000", "7000", "350", "20", StatusPaid)}
	payments := []PaymentRecord{}

	a := Aggregate(wages, payments)
	if a.Summary == nil {
		t.Fatal("Summary missing with both sides present")
	}
	if !a.Summary.NetMargin.IsZero() {
		t.Errorf("netMargin = %s, want 0 with zero income", a.Summary.NetMargin)
	}
	if !a.Summary.NetResult.Equal(dec("-7000")) {
		t.Errorf("netResult = %s, want -7000", a.Summary.NetResult)
	}
}

func TestAggregateOutstanding(t *testing.T) {
	wages := []WageRecord{
		wage("t1", "2000", "0", "100", "20", StatusPending),
	}
	payments := []PaymentRecord{
		payment("s1", "5000", "0", StatusPending),
	}

	s := Aggregate(wages, payments).Summary
	if !s.OutstandingReceivables.Equal(dec("5000")) {
		t.Errorf("receivables = %s, want 5000", s.OutstandingReceivables)
	}
	if !s.OutstandingPayables.Equal(dec("2000")) {
		t.Errorf("payables = %s, want 2000", s.OutstandingPayables)
	}
	if !s.NetOutstanding.Equal(dec("3000")) {
		t.Errorf("netOutstanding = %s, want 3000", s.NetOutstanding)
	}
}

func TestAggregateNoDriftOverManyRecords(t *testing.T) {
	// 0.1 summed 1000 times must be exactly 100
	wages := make([]WageRecord, 1000)
	for i := range wages {
		wages[i] = wage("t1", "0.1", "0.1", "0.01", "10", StatusPaid)
	}

	wa := Aggregate(wages, nil).Wages
	if !wa.TotalAmount.Equal(dec("100")) {
		t.Errorf("totalAmount = %s, want exactly 100", wa.TotalAmount)
	}
}
