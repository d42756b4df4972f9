package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-query-router/internal/dto"
	"ai-query-router/internal/pkg/serverutils"
	"ai-query-router/internal/service"
)

type IRouteController interface {
	RegisterRoutes(r fiber.Router)
	Route(ctx *fiber.Ctx) error
	GetDecisions(ctx *fiber.Ctx) error
	ReloadConfig(ctx *fiber.Ctx) error
}

type routeController struct {
	service           service.IRouterService
	scoringConfigPath string
}

func NewRouteController(service service.IRouterService, scoringConfigPath string) IRouteController {
	return &routeController{
		service:           service,
		scoringConfigPath: scoringConfigPath,
	}
}

func (c *routeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/router/v1")
	h.Post("/route", c.Route)
	h.Get("/decisions", c.GetDecisions)
	h.Post("/config/reload", c.ReloadConfig)
}

func (c *routeController) Route(ctx *fiber.Ctx) error {
	var req dto.RouteQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Route(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Query routed", res))
}

func (c *routeController) GetDecisions(ctx *fiber.Ctx) error {
	var req dto.GetDecisionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetDecisions(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get decisions", res))
}

func (c *routeController) ReloadConfig(ctx *fiber.Ctx) error {
	if err := c.service.ReloadScoringConfig(c.scoringConfigPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Scoring config reloaded", nil))
}
