package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
)

type policyApi struct {
	svc *policy.Service
}

func registerPolicyAPI(g *echo.Group, svc *policy.Service) {
	api := policyApi{svc: svc}

	pg := g.Group("/policies")
	pg.POST("", api.create)
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)
	pg.POST("/:id/retire", api.retire)
}

func (api *policyApi) create(ctx echo.Context) error {
	var data policy.NewPolicy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPolicy")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pol, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating policy")
	}
	return ctx.JSON(http.StatusCreated, pol)
}

func (api *policyApi) query(ctx echo.Context) error {
	filter := new(policy.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []policy.Policy{})
	}

	pols, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying policies")
	}
	if pols == nil {
		pols = []policy.Policy{}
	}
	return ctx.JSON(http.StatusOK, pols)
}

func (api *policyApi) retrieve(ctx echo.Context) error {
	pol, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pol)
}

func (api *policyApi) retire(ctx echo.Context) error {
	var data policy.RetirePolicy
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RetirePolicy")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pol, err := api.svc.Retire(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pol)
}
