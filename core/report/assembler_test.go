package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
)

func testRequest(includeRaw bool) Request {
	return Request{
		From:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		GeneratedBy: "admin@test.cd",
		Filters:     map[string]string{"school_id": "s1"},
		IncludeRaw:  includeRaw,
	}
}

func testRollup() attendance.Rollup {
	return attendance.Rollup{
		ByStudent: []attendance.StudentStats{
			{StudentID: "st1", ClassID: "c1", TotalLessons: 2, PresentCount: 2, AttendanceRate: 100},
		},
		ByClass:      []attendance.ClassStats{{ClassID: "c1", SchoolID: "s1", TotalStudents: 1}},
		BySchool:     []attendance.SchoolStats{{SchoolID: "s1", TotalClasses: 1, TotalStudents: 1}},
		TotalRecords: 2,
		OverallRate:  100,
	}
}

func testRecords() []attendance.Record {
	return []attendance.Record{
		{
			LessonID:     "l1",
			StudentID:    "st1",
			Status:       attendance.StatusPresent,
			PolicyID:     "pol-1",
			AppliedRules: []string{"Present: 5min within 15min tolerance"},
			Notes:        "Policy: Standard (ID: pol-1)",
		},
		{LessonID: "l2", StudentID: "st1", Status: attendance.StatusLate, PolicyID: "pol-1"},
	}
}

func TestAssembleAttendance(t *testing.T) {
	rep := AssembleAttendance(testRequest(true), testRollup(), testRecords())

	assert.Equal(t, "admin@test.cd", rep.Metadata.GeneratedBy)
	assert.Equal(t, "s1", rep.Metadata.Filters["school_id"])
	assert.False(t, rep.Metadata.GeneratedAt.IsZero())
	assert.Equal(t, 2, rep.Summary.TotalRecords)
	assert.Equal(t, 100.0, rep.Summary.OverallRate)
	require.Len(t, rep.Analytics.ByStudent, 1)
	require.Len(t, rep.RawData, 2)
}

func TestAssembleAttendanceWithoutRaw(t *testing.T) {
	rep := AssembleAttendance(testRequest(false), testRollup(), testRecords())
	assert.Nil(t, rep.RawData)
}

func TestAssembleFinancial(t *testing.T) {
	wa := finance.WageAnalytics{RecordCount: 1}
	analysis := finance.Analysis{Wages: &wa}

	rep := AssembleFinancial(testRequest(false), analysis)
	require.NotNil(t, rep.WageData)
	assert.Nil(t, rep.PaymentData)
	assert.Nil(t, rep.Summary)
}

func TestCSVProjection(t *testing.T) {
	rep := AssembleAttendance(testRequest(true), testRollup(), testRecords())
	rows := CSVProjection(rep)

	// header row first, then one row per raw record
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"lesson_id", "student_id", "status", "policy_id", "applied_rules", "notes"}, rows[0])
	assert.Equal(t, []string{
		"l1", "st1", "PRESENT", "pol-1",
		"Present: 5min within 15min tolerance",
		"Policy: Standard (ID: pol-1)",
	}, rows[1])
	assert.Equal(t, "l2", rows[2][0])

	for _, row := range rows {
		assert.Len(t, row, len(rows[0]))
	}
}

func TestWriteCSV(t *testing.T) {
	rep := AssembleAttendance(testRequest(true), testRollup(), testRecords())
	out, err := WriteCSV(rep)
	require.NoError(t, err)
	assert.Contains(t, string(out), "lesson_id,student_id,status,policy_id,applied_rules,notes\n")
	assert.Contains(t, string(out), "l2,st1,LATE,pol-1,,\n")
}
