package services

import (
	"errors"
	"strings"

	"imageworld/internal/gallery"
	"imageworld/internal/imagegen"
	"imageworld/types"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	saveFailedMessage  = "Failed to save image"
	saveWarningMessage = "Image generated, but saving to the gallery failed"
)

func generationFailed(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
		Error: imagegen.GenerationFailedMessage,
	})
}

// generationRequest applies defaults for absent fields. Present values are
// kept as sent, bounds included.
func generationRequest(body types.GenerateImageRequest) imagegen.Request {
	req := imagegen.NewRequest(body.Prompt)
	req.NegativePrompt = body.NegativePrompt
	if body.Width != nil {
		req.Width = int(*body.Width)
	}
	if body.Height != nil {
		req.Height = int(*body.Height)
	}
	if body.Steps != nil {
		req.Steps = int(*body.Steps)
	}
	if body.Seed != nil {
		req.Seed = int64(*body.Seed)
	}
	if body.GuidanceScale != nil {
		req.GuidanceScale = float64(*body.GuidanceScale)
	}
	return req
}

func settingsOf(req imagegen.Request) gallery.Settings {
	return gallery.Settings{
		Width:         req.Width,
		Height:        req.Height,
		Steps:         req.Steps,
		Seed:          req.Seed,
		GuidanceScale: req.GuidanceScale,
	}
}

func (a *Api) GenerateImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("generate-image", ctx)

		var requestBody types.GenerateImageRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			logger.Error("invalid body", "err", err)
			return generationFailed(ctx)
		}

		req := generationRequest(requestBody)
		image, err := a.bridge.Generate(ctx.UserContext(), req)
		if err != nil {
			logger.Error("image generation failed", "err", err)
			return generationFailed(ctx)
		}

		resp := types.GenerateImageResponse{ImageUrl: image.DataURL()}

		if requestBody.SaveToGallery {
			jobID, err := a.enqueueSave(ctx, requestBody, req, resp.ImageUrl)
			if err != nil {
				logger.Warn("gallery save not queued", "err", err)
				resp.Warning = saveWarningMessage
			} else {
				resp.SaveJobID = jobID
			}
		}

		return ctx.Status(fiber.StatusOK).JSON(resp)
	}
}

func (a *Api) enqueueSave(ctx *fiber.Ctx, body types.GenerateImageRequest, req imagegen.Request, dataURL string) (string, error) {
	if a.saves == nil {
		return "", errors.New("gallery saves not configured")
	}

	identity, ok := SessionIdentity(ctx)
	if !ok {
		return "", errors.New("no identity on request")
	}

	clientID := strings.TrimSpace(body.ClientID)
	if clientID == "" {
		clientID = identity.UserID
	}

	jobID := uuid.NewString()
	err := a.saves.Enqueue(SaveJob{
		JobID:  jobID,
		HubKey: hubKey(identity.UserID, clientID),
		Input: gallery.SaveInput{
			Owner:          identity,
			ImageDataURL:   dataURL,
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			IsPublic:       body.IsPublic,
			Settings:       settingsOf(req),
		},
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

func (a *Api) CreatePost() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("create-post", ctx)
		identity, _ := SessionIdentity(ctx)

		var requestBody types.CreatePostRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "invalid body",
			})
		}

		post, err := a.gallery.Save(ctx.UserContext(), gallery.SaveInput{
			Owner:          identity,
			ImageDataURL:   requestBody.ImageUrl,
			Prompt:         requestBody.Prompt,
			NegativePrompt: requestBody.NegativePrompt,
			IsPublic:       requestBody.IsPublic,
			Settings: gallery.Settings{
				Width:         int(requestBody.Settings.Width),
				Height:        int(requestBody.Settings.Height),
				Steps:         int(requestBody.Settings.Steps),
				Seed:          int64(requestBody.Settings.Seed),
				GuidanceScale: float64(requestBody.Settings.GuidanceScale),
			},
		})
		if err != nil {
			logger.Error("save post failed", "err", err)
			status := fiber.StatusInternalServerError
			if errors.Is(err, gallery.ErrInvalidImage) {
				status = fiber.StatusBadRequest
			}
			return ctx.Status(status).JSON(types.ErrorResponse{
				Error:   saveFailedMessage,
				Message: err.Error(),
			})
		}

		return ctx.Status(fiber.StatusCreated).JSON(postDTO(*post))
	}
}

func (a *Api) ListPublicPosts() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		limit, offset := gallery.NormalizePage(ctx.QueryInt("limit", gallery.DefaultPageSize), ctx.QueryInt("offset", 0))

		posts, err := a.gallery.ListPublic(ctx.UserContext(), limit, offset)
		return a.writePosts(ctx, "list-posts", posts, limit, offset, err)
	}
}

func (a *Api) ListMyPosts() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity, _ := SessionIdentity(ctx)
		limit, offset := gallery.NormalizePage(ctx.QueryInt("limit", gallery.DefaultPageSize), ctx.QueryInt("offset", 0))

		posts, err := a.gallery.ListByOwner(ctx.UserContext(), identity.UserID, limit, offset)
		return a.writePosts(ctx, "list-my-posts", posts, limit, offset, err)
	}
}

func (a *Api) writePosts(ctx *fiber.Ctx, action string, posts []gallery.Post, limit, offset int, err error) error {
	if err != nil {
		HttpLogger(action, ctx).Error("list posts failed", "err", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Error: "Failed to load posts",
		})
	}

	out := make([]types.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, postDTO(p))
	}

	return ctx.Status(fiber.StatusOK).JSON(types.ListPostsResponse{
		Posts:  out,
		Limit:  limit,
		Offset: offset,
	})
}

func postDTO(p gallery.Post) types.Post {
	return types.Post{
		ID:             p.ID,
		UserID:         p.UserID,
		UserName:       p.UserName,
		UserImage:      p.UserImage,
		Prompt:         p.Prompt,
		NegativePrompt: p.NegativePrompt,
		ImageUrl:       p.ImageURL,
		IsPublic:       p.IsPublic,
		Likes:          p.Likes,
		CreatedAt:      p.CreatedAt,
		Settings: types.PostSettings{
			Width:         types.FlexInt(p.Settings.Width),
			Height:        types.FlexInt(p.Settings.Height),
			Steps:         types.FlexInt(p.Settings.Steps),
			Seed:          types.FlexInt(p.Settings.Seed),
			GuidanceScale: types.FlexFloat(p.Settings.GuidanceScale),
		},
	}
}

