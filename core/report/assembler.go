package report

import (
	"time"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
)

// Request carries the caller-supplied metadata of a report run.
type Request struct {
	From        time.Time
	To          time.Time
	GeneratedBy string
	Filters     map[string]string
	IncludeRaw  bool
}

func (r Request) metadata() Metadata {
	return Metadata{
		DateRange:   DateRange{From: r.From, To: r.To},
		GeneratedAt: time.Now().UTC(),
		GeneratedBy: r.GeneratedBy,
		Filters:     r.Filters,
	}
}

// AssembleAttendance composes a rollup (and optionally its raw records) into
// the final attendance report object.
func AssembleAttendance(req Request, rollup attendance.Rollup, raw []attendance.Record) AttendanceReport {
	rep := AttendanceReport{
		Metadata: req.metadata(),
		Summary: AttendanceSummary{
			TotalRecords: rollup.TotalRecords,
			OverallRate:  rollup.OverallRate,
		},
		Analytics: AttendanceAnalytics{
			ByStudent:       rollup.ByStudent,
			ByClass:         rollup.ByClass,
			BySchool:        rollup.BySchool,
			ConcernStudents: rollup.ConcernStudents,
		},
	}
	if req.IncludeRaw {
		rep.RawData = raw
	}
	return rep
}

// AssembleFinancial composes financial analytics into the final report object.
func AssembleFinancial(req Request, analysis finance.Analysis) FinancialReport {
	return FinancialReport{
		Metadata:    req.metadata(),
		WageData:    analysis.Wages,
		PaymentData: analysis.Payments,
		Summary:     analysis.Summary,
	}
}
