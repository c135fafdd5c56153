package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core/exam"
)

type catalogApi struct {
	svc *exam.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *exam.Service) {
	api := catalogApi{svc: svc}

	ag := g.Group("", jwt, adminMiddleware(AdminRoles...))
	ag.GET("/exam-names", api.examNames)
	ag.GET("/catalog/classes", api.classes)
	ag.GET("/catalog/subjects", api.subjects)
}

func (api *catalogApi) examNames(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, exam.NameCatalogue)
}

func (api *catalogApi) classes(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx)

	classes, err := api.svc.ListClasses(ctx.Request().Context(), ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *catalogApi) subjects(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx)

	subjects, err := api.svc.ListSubjects(ctx.Request().Context(), ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "listing subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}
