package controller

import (
	"errors"

	"ai-flashcards-be/internal/dto"
	"ai-flashcards-be/internal/pkg/serverutils"
	"ai-flashcards-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFlashcardController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type flashcardController struct {
	flashcardService service.IFlashcardService
}

func NewFlashcardController(flashcardService service.IFlashcardService) IFlashcardController {
	return &flashcardController{
		flashcardService: flashcardService,
	}
}

func (c *flashcardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/flashcard/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *flashcardController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateFlashcardsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.flashcardService.CreateBatch(ctx.Context(), userId, &req)
	if err != nil {
		return mapFlashcardError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create flashcards", res))
}

func (c *flashcardController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ListFlashcardsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid query parameters"))
	}

	res, err := c.flashcardService.List(ctx.Context(), userId, &req)
	if err != nil {
		return mapFlashcardError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list flashcards", res))
}

func (c *flashcardController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid flashcard ID"))
	}

	var req dto.UpdateFlashcardRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.flashcardService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return mapFlashcardError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update flashcard", res))
}

func (c *flashcardController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid flashcard ID"))
	}

	if err := c.flashcardService.Delete(ctx.Context(), userId, id); err != nil {
		return mapFlashcardError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete flashcard", nil))
}

func mapFlashcardError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFlashcardNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Flashcard not found"))
	case errors.Is(err, service.ErrGenerationNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Generation not found"))
	case errors.Is(err, service.ErrManualWithGeneration),
		errors.Is(err, service.ErrMissingGenerationId),
		errors.Is(err, service.ErrMixedGenerationIds),
		errors.Is(err, service.ErrInvalidSource):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return err
}
