package services

import (
	"time"

	"imageworld/types"

	"github.com/gofiber/fiber/v2"
)

func (a *Api) Health() fiber.Handler {
	return func(ctx *fiber.Ctx) error {

		return ctx.Status(fiber.StatusOK).JSON(types.HealthResponse{
			Status:    fiber.StatusOK,
			TimeStamp: time.Now().Unix(),
		})
	}
}

func (a *Api) ModelInfo() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if a.models == nil {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(types.ErrorResponse{
				Error: "model info not configured",
			})
		}

		info, err := a.models.GetModelInfo(ctx.UserContext())
		if err != nil {
			HttpLogger("model-info", ctx).Error("model info lookup failed", "err", err)
			return ctx.Status(fiber.StatusBadGateway).JSON(types.ErrorResponse{
				Error:   "Failed to load model info",
				Message: err.Error(),
			})
		}

		return ctx.Status(fiber.StatusOK).JSON(types.ModelInfoResponse{
			ID:           info.Id,
			PipelineTag:  info.PipelineTag,
			Likes:        info.Likes,
			Downloads:    info.Downloads,
			LastModified: info.LastModified.Time,
		})
	}
}
