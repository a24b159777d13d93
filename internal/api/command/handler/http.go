package commandHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	commandRepository "EchoOS/internal/api/command/repository"
	commandService "EchoOS/internal/api/command/service"
	"EchoOS/internal/middleware"
)

type CommandHandler struct {
	log            *logrus.Logger
	commandService commandService.CommandService
	commandRepo    commandRepository.Repository
	validator      *validator.Validate
	middleware     middleware.Middleware
}

func New(
	log *logrus.Logger,
	cs commandService.CommandService,
	repo commandRepository.Repository,
	validate *validator.Validate,
	middleware middleware.Middleware) *CommandHandler {
	return &CommandHandler{
		log:            log,
		commandService: cs,
		commandRepo:    repo,
		validator:      validate,
		middleware:     middleware,
	}
}

func (h *CommandHandler) Start(srv fiber.Router) {
	commands := srv.Group("/commands")
	commands.Post("/", h.HandleSubmitTranscript)
	commands.Post("/attach", h.middleware.NewSessionMiddleware, h.HandleAttach)
	commands.Post("/parse", h.middleware.NewSessionMiddleware, h.HandleParse)
	commands.Get("/state", h.HandleListeningState)
	commands.Get("/history", h.middleware.NewSessionMiddleware, h.HandleHistory)

	commands.Use("/stream", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	commands.Get("/stream", websocket.New(h.HandleStream))
}
