package controller

import (
	"tabnote-be/internal/dto"
	"tabnote-be/internal/pkg/serverutils"
	"tabnote-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITabController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type tabController struct {
	service service.ITabService
}

func NewTabController(service service.ITabService) ITabController {
	return &tabController{service: service}
}

func (c *tabController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tab/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Put(":id", c.Rename)
	h.Delete(":id", c.Delete)
}

func (c *tabController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req struct {
		NotebookId string `json:"notebook_id" validate:"required,uuid"`
		Title      string `json:"title" validate:"required"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	notebookId, _ := uuid.Parse(req.NotebookId)
	res, err := c.service.Create(ctx.Context(), userId, &dto.CreateTabRequest{
		NotebookId: notebookId,
		Title:      req.Title,
	})
	if err != nil {
		if err == service.ErrNotebookNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create tab", res))
}

func (c *tabController) Rename(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tab id")
	}

	var req dto.RenameTabRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.Rename(ctx.Context(), userId, &req); err != nil {
		if err == service.ErrTabNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename tab", nil))
}

func (c *tabController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tab id")
	}

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		if err == service.ErrTabNotFound {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err == service.ErrLastTab {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete tab", nil))
}
