package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"EchoOS/internal/entity"
	contextPkg "EchoOS/pkg/context"
	jwtPkg "EchoOS/pkg/jwt"
)

// NewSessionMiddleware guards routes behind a live session. The token is
// checked against the session store on every request, so logout and expiry
// take effect immediately.
func (m *middleware) NewSessionMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")

	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		m.log.WithFields(logrus.Fields{
			"path":      ctx.Path(),
			"client_ip": ctx.IP(),
		}).Warn("Request without session token")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, session token missing or expired",
		})
	}

	token, err := jwtPkg.TokenFromHeader(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, session token missing or expired",
		})
	}

	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	session, err := m.authService.Session().Validate(c, token)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"path":  ctx.Path(),
			"error": err.Error(),
		}).Warn("Session validation failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, session token missing or expired",
		})
	}

	ctx.Locals("user", entity.UserLoginData{
		Username:  session.Username,
		SessionID: session.ID,
	})

	return ctx.Next()
}
