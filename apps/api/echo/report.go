package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/report"
)

type (
	attendanceReportRequest struct {
		ClassID    string    `query:"class_id"`
		SchoolID   string    `query:"school_id"`
		DateFrom   time.Time `query:"date_from"`
		DateTo     time.Time `query:"date_to"`
		IncludeRaw bool      `query:"include_raw"`
		Format     string    `query:"format"` // json (default) | csv
	}

	financialReportRequest struct {
		TeacherID       string    `query:"teacher_id"`
		SchoolID        string    `query:"school_id"`
		From            time.Time `query:"from"`
		To              time.Time `query:"to"`
		IncludeWages    *bool     `query:"include_wages"`
		IncludePayments *bool     `query:"include_payments"`
	}

	reportApi struct {
		attSvc *attendance.Service
		finSvc *finance.Service
	}
)

func registerReportAPI(g *echo.Group, attSvc *attendance.Service, finSvc *finance.Service) {
	api := reportApi{attSvc: attSvc, finSvc: finSvc}

	rg := g.Group("/reports")
	rg.GET("/attendance", api.attendanceReport)
	rg.GET("/financial", api.financialReport)
}

func (api *reportApi) attendanceReport(ctx echo.Context) error {
	var req attendanceReportRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to attendanceReportRequest")
	}
	if req.Format != "" && req.Format != "json" && req.Format != "csv" {
		return core.NewValidationError(nil, core.FieldError{Field: "format", Error: "must be json or csv"})
	}

	rctx := ctx.Request().Context()
	filter := attendance.LessonFilter{
		ClassID:  req.ClassID,
		SchoolID: req.SchoolID,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	rollup, err := api.attSvc.BuildRollup(rctx, filter)
	if err != nil {
		return err
	}

	// CSV export flattens raw records, so they are always fetched for it
	var raw []attendance.Record
	if req.IncludeRaw || req.Format == "csv" {
		lessons, err := api.attSvc.QueryLessons(rctx, filter)
		if err != nil {
			return errors.Wrap(err, "querying report lessons")
		}
		lessonIDs := make([]string, 0, len(lessons))
		for _, l := range lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
		if raw, err = api.attSvc.RecordsForLessons(rctx, lessonIDs); err != nil {
			return errors.Wrap(err, "querying report records")
		}
	}

	rep := report.AssembleAttendance(report.Request{
		From:       req.DateFrom,
		To:         req.DateTo,
		Filters:    reportFilters(req.ClassID, req.SchoolID),
		IncludeRaw: req.IncludeRaw || req.Format == "csv",
	}, rollup, raw)

	if req.Format == "csv" {
		data, err := report.WriteCSV(rep)
		if err != nil {
			return errors.Wrap(err, "writing report csv")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance-report.csv"`)
		return ctx.Blob(http.StatusOK, "text/csv", data)
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) financialReport(ctx echo.Context) error {
	var req financialReportRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding to financialReportRequest")
	}

	// both sides are included unless explicitly disabled
	includeWages := req.IncludeWages == nil || *req.IncludeWages
	includePayments := req.IncludePayments == nil || *req.IncludePayments

	analysis, err := api.finSvc.Analyze(ctx.Request().Context(), finance.QueryFilter{
		TeacherID: req.TeacherID,
		SchoolID:  req.SchoolID,
		From:      req.From,
		To:        req.To,
	}, includeWages, includePayments)
	if err != nil {
		return err
	}

	rep := report.AssembleFinancial(report.Request{
		From:    req.From,
		To:      req.To,
		Filters: reportFilters("", req.SchoolID),
	}, analysis)
	return ctx.JSON(http.StatusOK, rep)
}

func reportFilters(classID, schoolID string) map[string]string {
	filters := make(map[string]string)
	if classID != "" {
		filters["class_id"] = classID
	}
	if schoolID != "" {
		filters["school_id"] = schoolID
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}
