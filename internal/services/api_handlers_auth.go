package services

import (
	"errors"
	"time"

	"imageworld/internal/auth"
	"imageworld/types"

	"github.com/gofiber/fiber/v2"
)

func userDTO(identity auth.Identity) types.User {
	return types.User{
		ID:       identity.UserID,
		Name:     identity.Name,
		Email:    identity.Email,
		PhotoURL: identity.PhotoURL,
	}
}

func (a *Api) setSessionCookie(ctx *fiber.Ctx, token string, expires time.Time) {
	ctx.Cookie(&fiber.Cookie{
		Name:     a.session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   a.session.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func registrationError(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		return fiber.StatusBadRequest, "Passwords do not match"
	case errors.Is(err, auth.ErrWeakPassword):
		return fiber.StatusBadRequest, "Password should be at least 6 characters"
	case errors.Is(err, auth.ErrInvalidEmail):
		return fiber.StatusBadRequest, "Invalid email address"
	case errors.Is(err, auth.ErrEmailTaken):
		return fiber.StatusConflict, "This email is already registered"
	default:
		return fiber.StatusInternalServerError, "An error occurred during registration"
	}
}

func (a *Api) Register() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		logger := HttpLogger("register", ctx)

		var requestBody types.RegisterRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "invalid body",
			})
		}

		session, err := a.auth.Register(ctx.UserContext(), auth.RegisterInput{
			Name:            requestBody.Name,
			Email:           requestBody.Email,
			Password:        requestBody.Password,
			ConfirmPassword: requestBody.ConfirmPassword,
		})
		if err != nil {
			status, msg := registrationError(err)
			if status == fiber.StatusInternalServerError {
				logger.Error("registration failed", "err", err)
			}
			return ctx.Status(status).JSON(types.ErrorResponse{Error: msg})
		}

		a.setSessionCookie(ctx, session.Token, session.ExpiresAt)
		return ctx.Status(fiber.StatusCreated).JSON(types.SessionResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      userDTO(session.Identity),
		})
	}
}

func (a *Api) SignIn() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		invalid := func() error {
			return ctx.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
				Error: "Invalid email or password",
			})
		}

		var requestBody types.SignInRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			return invalid()
		}

		session, err := a.auth.SignIn(ctx.UserContext(), requestBody.Email, requestBody.Password)
		if err != nil {
			return invalid()
		}

		a.setSessionCookie(ctx, session.Token, session.ExpiresAt)
		return ctx.Status(fiber.StatusOK).JSON(types.SessionResponse{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
			User:      userDTO(session.Identity),
		})
	}
}

func (a *Api) SignOut() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := a.auth.SignOut(ctx.UserContext(), a.sessionToken(ctx)); err != nil {
			HttpLogger("signout", ctx).Error("revoke failed", "err", err)
			return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
				Error: "Failed to sign out",
			})
		}

		ctx.ClearCookie(a.session.CookieName)
		return ctx.SendStatus(fiber.StatusNoContent)
	}
}

func (a *Api) CurrentSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		identity, _ := SessionIdentity(ctx)
		return ctx.Status(fiber.StatusOK).JSON(types.SessionResponse{
			User: userDTO(identity),
		})
	}
}
