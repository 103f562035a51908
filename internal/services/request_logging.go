package services

import (
	"regexp"
	"strings"
	"time"

	"imageworld/internal/auth"
	"imageworld/utils"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const (
	reqIDKey     = "reqId"
	headerReqID  = "X-Request-Id"
	maxUserAgent = 200
)

// inbound ids from a proxy are kept only when they look like ids
var validReqID = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

func RequestLogger() fiber.Handler {
	base := log.With("component", "http")

	return func(c *fiber.Ctx) error {
		reqID := strings.TrimSpace(c.Get(headerReqID))
		if !validReqID.MatchString(reqID) {
			reqID = utils.NewRequestID()
		}
		c.Locals(reqIDKey, reqID)
		c.Set(headerReqID, reqID)

		start := time.Now()
		logger := base.With("reqId", reqID, "method", c.Method(), "path", c.Path())

		ua := strings.TrimSpace(string(c.Context().UserAgent()))
		if len(ua) > maxUserAgent {
			ua = ua[:maxUserAgent]
		}
		logger.Debug("request started", "ip", c.IP(), "ua", ua)

		err := c.Next()
		status := c.Response().StatusCode()
		dur := time.Since(start).String()

		switch {
		case err != nil:
			logger.Error("request failed", "status", status, "dur", dur, "err", err)
		case status >= fiber.StatusInternalServerError:
			logger.Warn("request completed", "status", status, "dur", dur)
		default:
			logger.Info("request completed", "status", status, "dur", dur)
		}
		return err
	}
}

func ReqID(c *fiber.Ctx) string {
	s, _ := c.Locals(reqIDKey).(string)
	return s
}

// HttpLogger tags handler logs with the request id and, behind the session
// gate, the caller's uid.
func HttpLogger(action string, c *fiber.Ctx) *log.Logger {
	logger := log.With(
		"component", "api",
		"action", action,
		"reqId", ReqID(c),
	)
	if identity, ok := c.Locals(identityKey).(auth.Identity); ok {
		logger = logger.With("uid", identity.UserID)
	}
	return logger
}
