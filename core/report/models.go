package report

import (
	"time"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
)

type (
	DateRange struct {
		From time.Time `json:"from"`
		To   time.Time `json:"to"`
	}

	// Metadata describes how and when a report was generated. Reports are
	// point-in-time snapshots: records written after GeneratedAt are not
	// reflected.
	Metadata struct {
		DateRange   DateRange         `json:"date_range"`
		GeneratedAt time.Time         `json:"generated_at"` // UTC
		GeneratedBy string            `json:"generated_by,omitempty"`
		Filters     map[string]string `json:"filters,omitempty"`
	}

	AttendanceAnalytics struct {
		ByStudent       []attendance.StudentStats   `json:"by_student"`
		ByClass         []attendance.ClassStats     `json:"by_class"`
		BySchool        []attendance.SchoolStats    `json:"by_school"`
		ConcernStudents []attendance.ConcernStudent `json:"concern_students"`
	}

	AttendanceSummary struct {
		TotalRecords int     `json:"total_records"`
		OverallRate  float64 `json:"overall_rate"`
	}

	AttendanceReport struct {
		Metadata  Metadata            `json:"metadata"`
		Summary   AttendanceSummary   `json:"summary"`
		Analytics AttendanceAnalytics `json:"analytics"`
		RawData   []attendance.Record `json:"raw_data,omitempty"`
	}

	FinancialReport struct {
		Metadata    Metadata                  `json:"metadata"`
		WageData    *finance.WageAnalytics    `json:"wage_data,omitempty"`
		PaymentData *finance.PaymentAnalytics `json:"payment_data,omitempty"`
		Summary     *finance.Summary          `json:"summary,omitempty"`
	}
)
