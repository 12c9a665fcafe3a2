package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	lg := g.Group("/lessons")
	lg.POST("", api.createLesson)
	lg.GET("", api.queryLessons)
	lg.GET("/:id", api.retrieveLesson)
	lg.POST("/:id/attendance", api.submit)
	lg.GET("/:id/attendance", api.records)
}

func (api *attendanceApi) createLesson(ctx echo.Context) error {
	var data attendance.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	lesson, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lesson)
}

func (api *attendanceApi) queryLessons(ctx echo.Context) error {
	filter := new(attendance.LessonFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Lesson{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)
	filter.Orderings = ordering.Orderings

	lessons, err := api.svc.QueryLessons(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []attendance.Lesson{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *attendanceApi) retrieveLesson(ctx echo.Context) error {
	lesson, err := api.svc.GetLesson(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lesson)
}

func (api *attendanceApi) submit(ctx echo.Context) error {
	var data attendance.Submission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}

	records, err := api.svc.SubmitLesson(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, records)
}

func (api *attendanceApi) records(ctx echo.Context) error {
	records, err := api.svc.RecordsForLessons(ctx.Request().Context(), []string{ctx.Param("id")})
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}
