package controller

import (
	"mindloop-be/internal/dto"
	"mindloop-be/internal/pkg/apperror"
	"mindloop-be/internal/pkg/serverutils"
	"mindloop-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IThoughtController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	Branch(ctx *fiber.Ctx) error
	Expand(ctx *fiber.Ctx) error
	StartInfinite(ctx *fiber.Ctx) error
	ContinueInfinite(ctx *fiber.Ctx) error
	StopInfinite(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type thoughtController struct {
	thoughtService    service.IThoughtService
	generationService service.IGenerationService
	sessionService    service.ISessionService
}

func NewThoughtController(
	thoughtService service.IThoughtService,
	generationService service.IGenerationService,
	sessionService service.ISessionService,
) IThoughtController {
	return &thoughtController{
		thoughtService:    thoughtService,
		generationService: generationService,
		sessionService:    sessionService,
	}
}

func (c *thoughtController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/thoughts")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Post("generate", c.Generate)
	h.Post("branch", c.Branch)
	h.Post("expand", c.Expand)
	h.Post("infinite", c.StartInfinite)
	h.Post("infinite/continue", c.ContinueInfinite)
	h.Delete("infinite", c.StopInfinite)
	h.Delete("reset", c.Reset)
}

func (c *thoughtController) List(ctx *fiber.Ctx) error {
	req := dto.ListThoughtsRequest{
		Mood:   ctx.Query("mood"),
		Tag:    ctx.Query("tag"),
		Search: ctx.Query("search"),
		Limit:  ctx.QueryInt("limit"),
	}

	res, err := c.thoughtService.List(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *thoughtController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateThoughtRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.thoughtService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.DataResponse(res))
}

func (c *thoughtController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateThoughtRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apperror.Validation("Invalid request body")
		}
	}

	res, err := c.generationService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *thoughtController) Branch(ctx *fiber.Ctx) error {
	var req dto.BranchThoughtsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Branch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Branched thoughts generated", res))
}

func (c *thoughtController) Expand(ctx *fiber.Ctx) error {
	var req dto.ExpandThoughtsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Expand(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Expanded thoughts generated", res))
}

func (c *thoughtController) StartInfinite(ctx *fiber.Ctx) error {
	var req dto.StartInfiniteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Start(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *thoughtController) ContinueInfinite(ctx *fiber.Ctx) error {
	var req dto.ContinueInfiniteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Continue(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *thoughtController) StopInfinite(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("sessionId")
	if sessionID == "" {
		return apperror.Validation("sessionId query parameter is required")
	}

	if err := c.sessionService.Stop(ctx.Context(), sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Infinite generation stopped", nil))
}

func (c *thoughtController) Reset(ctx *fiber.Ctx) error {
	res, err := c.thoughtService.Reset(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
