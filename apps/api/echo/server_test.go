package echoapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/codelasak/fa-akademi-tool-sub000/apps/api/echo"
	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/report"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
	dummydb "github.com/codelasak/fa-akademi-tool-sub000/storage/database/dummy"
)

func setup(t *testing.T) *echoapi.Server {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	logger := core.NewStdLogger(log.New(io.Discard, "", 0))
	schoolRepo := dummydb.NewSchoolRepository(db)
	policyRepo := dummydb.NewPolicyRepository(db)
	resolver := policy.NewResolver(policyRepo, schoolRepo)

	return echoapi.NewServer(echoapi.ServerDeps{
		Logger:         logger,
		SchoolSvc:      school.NewService(schoolRepo),
		PolicySvc:      policy.NewService(policyRepo),
		AttendanceSvc:  attendance.NewService(dummydb.NewAttendanceRepository(db), schoolRepo, resolver, logger),
		FinanceSvc:     finance.NewService(dummydb.NewFinanceRepository(db)),
		DisableReqLogs: true,
	})
}

func doJSON(t *testing.T, srv *echoapi.Server, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buff bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buff).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buff)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusBadRequest {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func Test_api_attendanceFlow(t *testing.T) {
	srv := setup(t)

	// school / class / students
	var sch school.School
	rec := doJSON(t, srv, http.MethodPost, "/v1/schools", school.NewSchool{Name: "Hilltop"}, &sch)
	require.Equal(t, http.StatusCreated, rec.Code)

	var cls school.Class
	rec = doJSON(t, srv, http.MethodPost, "/v1/classes", school.NewClass{SchoolID: sch.ID, Name: "Grade 5"}, &cls)
	require.Equal(t, http.StatusCreated, rec.Code)

	students := make([]school.Student, 2)
	for i := range students {
		rec = doJSON(t, srv, http.MethodPost, "/v1/students",
			school.NewStudent{ClassID: cls.ID, Name: fmt.Sprintf("Student %d", i+1)}, &students[i])
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// class-scoped policy with a tight late tolerance
	var pol policy.Policy
	rec = doJSON(t, srv, http.MethodPost, "/v1/policies", policy.NewPolicy{
		Name:                 "Strict",
		Scope:                policy.ScopeClass,
		ScopeClassID:         cls.ID,
		ConcernThreshold:     80,
		LateToleranceMinutes: 5,
		MaxAbsences:          10,
		EffectiveFrom:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, &pol)
	require.Equal(t, http.StatusCreated, rec.Code)

	// lesson
	var lesson attendance.Lesson
	rec = doJSON(t, srv, http.MethodPost, "/v1/lessons", attendance.NewLesson{
		ClassID:     cls.ID,
		TeacherID:   "teacher-1",
		Date:        time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		HoursWorked: 2,
	}, &lesson)
	require.Equal(t, http.StatusCreated, rec.Code)

	// submission: one on-time, one past tolerance
	ten := 10
	sub := attendance.Submission{
		students[0].ID: {Status: attendance.StatusPresent},
		students[1].ID: {Status: attendance.StatusPresent, ArrivalMinutes: &ten},
	}
	var records []attendance.Record
	rec = doJSON(t, srv, http.MethodPost, "/v1/lessons/"+lesson.ID+"/attendance", sub, &records)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, records, 2)

	byStudent := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		byStudent[r.StudentID] = r
	}
	assert.Equal(t, attendance.StatusPresent, byStudent[students[0].ID].Status)
	assert.Equal(t, attendance.StatusLate, byStudent[students[1].ID].Status)
	assert.Equal(t, pol.ID, byStudent[students[1].ID].PolicyID)

	// re-submission is rejected
	rec = doJSON(t, srv, http.MethodPost, "/v1/lessons/"+lesson.ID+"/attendance", sub, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// report
	v := make(url.Values)
	v.Set("class_id", cls.ID)
	v.Set("include_raw", "true")
	var rep report.AttendanceReport
	rec = doJSON(t, srv, http.MethodGet, "/v1/reports/attendance?"+v.Encode(), nil, &rep)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, rep.Summary.TotalRecords)
	assert.Equal(t, 100.0, rep.Summary.OverallRate) // present + late both count as attended
	assert.Len(t, rep.RawData, 2)
	require.Len(t, rep.Analytics.ByClass, 1)
	assert.Equal(t, cls.ID, rep.Analytics.ByClass[0].ClassID)

	// CSV export
	v.Set("format", "csv")
	req := httptest.NewRequest(http.MethodGet, "/v1/reports/attendance?"+v.Encode(), nil)
	csvRec := httptest.NewRecorder()
	srv.ServeHTTP(csvRec, req)
	require.Equal(t, http.StatusOK, csvRec.Code)
	lines := strings.Split(strings.TrimSpace(csvRec.Body.String()), "\n")
	require.Len(t, lines, 3) // header + 2 records
	assert.True(t, strings.HasPrefix(lines[0], "lesson_id,student_id,status"))
}

func Test_api_unknownLesson(t *testing.T) {
	srv := setup(t)

	sub := attendance.Submission{"s1": {Status: attendance.StatusPresent}}
	rec := doJSON(t, srv, http.MethodPost, "/v1/lessons/nope/attendance", sub, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_api_policyValidation(t *testing.T) {
	srv := setup(t)

	// CLASS scope without a class id
	rec := doJSON(t, srv, http.MethodPost, "/v1/policies", policy.NewPolicy{
		Name:          "Broken",
		Scope:         policy.ScopeClass,
		EffectiveFrom: time.Now().UTC(),
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_api_financialReport(t *testing.T) {
	srv := setup(t)

	var wage finance.WageRecord
	rec := doJSON(t, srv, http.MethodPost, "/v1/finance/wages", finance.NewWageRecord{
		TeacherID:  "teacher-1",
		Month:      3,
		Year:       2026,
		TotalHours: 10,
		HourlyRate: 25,
		PaidAmount: 100,
		Status:     finance.StatusPending,
	}, &wage)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "250", wage.TotalAmount.String())

	var payment finance.PaymentRecord
	rec = doJSON(t, srv, http.MethodPost, "/v1/finance/payments", finance.NewPaymentRecord{
		SchoolID:     "school-1",
		Month:        3,
		Year:         2026,
		AgreedAmount: 1000,
		PaidAmount:   400,
		Status:       finance.StatusPending,
	}, &payment)
	require.Equal(t, http.StatusCreated, rec.Code)

	var rep report.FinancialReport
	rec = doJSON(t, srv, http.MethodGet, "/v1/reports/financial", nil, &rep)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, rep.WageData)
	require.NotNil(t, rep.PaymentData)
	require.NotNil(t, rep.Summary)
	assert.Equal(t, "250", rep.WageData.TotalAmount.String())
	assert.Equal(t, "400", rep.PaymentData.TotalPaid.String())
	assert.Equal(t, "300", rep.Summary.NetResult.String()) // 400 received - 100 wages paid
}
