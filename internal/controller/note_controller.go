package controller

import (
	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/serverutils"
	"tabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	GetByTab(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
}

type noteController struct {
	service service.INoteService
}

func NewNoteController(service service.INoteService) INoteController {
	return &noteController{service: service}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/tab/:tabId", c.GetByTab)
	h.Put("/tab/:tabId", c.Save)
}

func (c *noteController) GetByTab(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	tabId, err := uuid.Parse(ctx.Params("tabId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tab id")
	}

	res, err := c.service.GetByTab(ctx.Context(), userId, tabId)
	if err != nil {
		if err == service.ErrTabNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note", res))
}

func (c *noteController) Save(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	tabId, err := uuid.Parse(ctx.Params("tabId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tab id")
	}

	var req dto.SaveNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.TabId = tabId

	res, err := c.service.Save(ctx.Context(), userId, &req)
	if err != nil {
		if err == service.ErrTabNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save note", res))
}
