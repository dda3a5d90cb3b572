package controller

import (
	"errors"

	"ai-flashcards-be/internal/dto"
	"ai-flashcards-be/internal/pkg/serverutils"
	"ai-flashcards-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router, rateLimiter *serverutils.RateLimiter)
	Generate(ctx *fiber.Ctx) error
}

type generationController struct {
	generationService service.IGenerationService
}

func NewGenerationController(generationService service.IGenerationService) IGenerationController {
	return &generationController{
		generationService: generationService,
	}
}

func (c *generationController) RegisterRoutes(r fiber.Router, rateLimiter *serverutils.RateLimiter) {
	h := r.Group("/generation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", rateLimiter.Middleware(), c.Generate)
}

func (c *generationController) Generate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.GenerateFlashcardsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.generationService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrAIServiceUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(serverutils.ErrorResponse(503, "AI service is temporarily unavailable. Please try again later"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate flashcards", res))
}
