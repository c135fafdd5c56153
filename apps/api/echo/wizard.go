package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core/exam"
)

type (
	wizardApi struct {
		svc *exam.Service
	}

	wizardResp struct {
		ID         string         `json:"id"`
		Step       int            `json:"step"`
		StepName   string         `json:"step_name"`
		CanProceed bool           `json:"can_proceed"`
		Form       exam.FormState `json:"form"`
	}

	generateResp struct {
		wizardResp
		Unplaced []string `json:"unplaced"`
	}

	gridResp struct {
		View     exam.View       `json:"view"`
		Coverage []exam.Coverage `json:"coverage"`
	}

	commitResp struct {
		Count int           `json:"count"`
		Exams []exam.Record `json:"exams"`
	}

	classesReq struct {
		ClassIDs []string `json:"class_ids"`
	}

	modeReq struct {
		Mode exam.Mode `json:"mode"`
	}

	slotsReq struct {
		Slots []exam.TimeSlot `json:"slots"`
	}

	subjectsReq struct {
		SubjectIDs []string `json:"subject_ids"`
	}

	assignReq struct {
		exam.Cell
		SubjectID string `json:"subject_id"`
	}
)

func registerWizardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *exam.Service) {
	api := wizardApi{svc: svc}

	wg := g.Group("/exam-wizards", jwt, adminMiddleware(AdminRoles...))
	wg.POST("", api.open)

	// detail endpoints
	dg := wg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.DELETE("", api.close)
	dg.PUT("/parameters", api.setParameters)
	dg.PUT("/classes", api.selectClasses)
	dg.PUT("/mode", api.chooseMode)
	dg.PUT("/slots", api.setSlots)
	dg.PUT("/subjects/:classId", api.setClassSubjects)
	dg.POST("/next", api.next)
	dg.POST("/back", api.back)
	dg.POST("/schedule", api.generate)
	dg.GET("/grid", api.grid)
	dg.PUT("/grid", api.assign)
	dg.DELETE("/grid", api.clear)
	dg.POST("/commit", api.commit)
}

func newWizardResp(id string, w exam.Wizard) wizardResp {
	return wizardResp{
		ID:         id,
		Step:       int(w.Step()),
		StepName:   w.Step().String(),
		CanProceed: w.CanProceed(),
		Form:       w.Form(),
	}
}

// respond renders the wizard after a transition.
func respond(ctx echo.Context, id string, w exam.Wizard, err error) error {
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newWizardResp(id, w))
}

// Handlers

func (api *wizardApi) open(ctx echo.Context) error {
	id, w, err := api.svc.Open(ctx.Request().Context(), getContextOperator(ctx))
	if err != nil {
		return errors.Wrap(err, "opening wizard")
	}
	return ctx.JSON(http.StatusCreated, newWizardResp(id, w))
}

func (api *wizardApi) retrieve(ctx echo.Context) error {
	id := ctx.Param("id")
	w, err := api.svc.Get(id)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) close(ctx echo.Context) error {
	if err := api.svc.Close(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *wizardApi) setParameters(ctx echo.Context) error {
	var data exam.Parameters
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to exam.Parameters")
	}
	id := ctx.Param("id")
	w, err := api.svc.SetParameters(id, data)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) selectClasses(ctx echo.Context) error {
	var data classesReq
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to classesReq")
	}
	id := ctx.Param("id")
	w, err := api.svc.SelectClasses(id, data.ClassIDs)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) chooseMode(ctx echo.Context) error {
	var data modeReq
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to modeReq")
	}
	id := ctx.Param("id")
	w, err := api.svc.ChooseMode(id, data.Mode)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) setSlots(ctx echo.Context) error {
	var data slotsReq
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to slotsReq")
	}
	id := ctx.Param("id")
	w, err := api.svc.SetSlots(id, data.Slots)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) setClassSubjects(ctx echo.Context) error {
	var data subjectsReq
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to subjectsReq")
	}
	id := ctx.Param("id")
	w, err := api.svc.SetClassSubjects(id, ctx.Param("classId"), data.SubjectIDs)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) next(ctx echo.Context) error {
	id := ctx.Param("id")
	w, err := api.svc.Next(id)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) back(ctx echo.Context) error {
	id := ctx.Param("id")
	w, err := api.svc.Back(id)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) generate(ctx echo.Context) error {
	id := ctx.Param("id")
	w, res, err := api.svc.Generate(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, generateResp{wizardResp: newWizardResp(id, w), Unplaced: res.Unplaced})
}

func (api *wizardApi) grid(ctx echo.Context) error {
	w, err := api.svc.Get(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, gridResp{View: w.View(), Coverage: w.Summary()})
}

func (api *wizardApi) assign(ctx echo.Context) error {
	var data assignReq
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to assignReq")
	}
	id := ctx.Param("id")
	w, err := api.svc.Assign(id, data.Cell, data.SubjectID)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) clear(ctx echo.Context) error {
	cell, err := bindCell(ctx)
	if err != nil {
		return err
	}
	id := ctx.Param("id")
	w, err := api.svc.Clear(id, cell)
	return respond(ctx, id, w, err)
}

func (api *wizardApi) commit(ctx echo.Context) error {
	records, err := api.svc.Commit(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, commitResp{Count: len(records), Exams: records})
}
