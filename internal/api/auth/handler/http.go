package authHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	authService "EchoOS/internal/api/auth/service"
	"EchoOS/internal/middleware"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")
	auth.Post("/login", h.middleware.NewRateLimiter, h.HandleVoiceLogin)
	auth.Post("/login-password", h.middleware.NewRateLimiter, h.HandlePasswordLogin)
	auth.Post("/logout", h.HandleLogout)
	auth.Get("/session", h.HandleValidateSession)

	users := srv.Group("/users")
	users.Post("/", h.middleware.NewRateLimiter, h.HandleRegister)
	users.Delete("/:username", h.middleware.NewSessionMiddleware, h.HandleDeleteUser)
}
