package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
)

var csvHeader = []string{"lesson_id", "student_id", "status", "policy_id", "applied_rules", "notes"}

// CSVProjection flattens a report's raw records into ordered rows of string
// cells, header row first: one row per underlying record, not per aggregate.
func CSVProjection(rep AttendanceReport) [][]string {
	rows := make([][]string, 0, len(rep.RawData)+1)
	rows = append(rows, csvHeader)
	for _, rec := range rep.RawData {
		rows = append(rows, []string{
			rec.LessonID,
			rec.StudentID,
			rec.Status,
			rec.PolicyID,
			strings.Join(rec.AppliedRules, "; "),
			rec.Notes,
		})
	}
	return rows
}

// WriteCSV renders the projection as an RFC 4180 CSV document.
func WriteCSV(rep AttendanceReport) ([]byte, error) {
	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	if err := w.WriteAll(CSVProjection(rep)); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

var concernCSVHeader = []string{"student_id", "class_id", "attendance_rate", "concern_threshold", "policy_id"}

// WriteConcernCSV renders the concern student list as a CSV document, used as
// the attachment of the administrator digest email.
func WriteConcernCSV(students []attendance.ConcernStudent) ([]byte, error) {
	rows := make([][]string, 0, len(students)+1)
	rows = append(rows, concernCSVHeader)
	for _, st := range students {
		rows = append(rows, []string{
			st.StudentID,
			st.ClassID,
			strconv.FormatFloat(st.AttendanceRate, 'f', 2, 64),
			strconv.FormatFloat(st.ConcernThreshold, 'f', 2, 64),
			st.PolicyID,
		})
	}
	var buff bytes.Buffer
	w := csv.NewWriter(&buff)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}
