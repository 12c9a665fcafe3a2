package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
)

type financeApi struct {
	svc *finance.Service
}

func registerFinanceAPI(g *echo.Group, svc *finance.Service) {
	api := financeApi{svc: svc}

	fg := g.Group("/finance")
	fg.POST("/wages", api.createWage)
	fg.POST("/payments", api.createPayment)
}

func (api *financeApi) createWage(ctx echo.Context) error {
	var data finance.NewWageRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWageRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.CreateWage(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating wage record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *financeApi) createPayment(ctx echo.Context) error {
	var data finance.NewPaymentRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPaymentRecord")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.CreatePayment(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating payment record")
	}
	return ctx.JSON(http.StatusCreated, rec)
}
