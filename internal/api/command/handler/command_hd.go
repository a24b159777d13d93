package commandHandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"EchoOS/internal/api/command"
	contextPkg "EchoOS/pkg/context"
	"EchoOS/pkg/handlerUtil"
	jwtPkg "EchoOS/pkg/jwt"
)

// HandleSubmitTranscript pushes one typed or pre-recognized transcript
// through the full pipeline gate. The session token travels with the
// transcript; the pipeline refuses execution without a live session and
// reports the refusal in the result instead of an HTTP error.
func (h *CommandHandler) HandleSubmitTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req command.SubmitTranscriptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	token, _ := jwtPkg.TokenFromHeader(ctx)

	cmd, result := h.commandService.Pipeline().SubmitTranscript(c, token, req.Text)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, command.SubmitTranscriptResponse{
		Command: cmd,
		Result:  result,
	})
}

// HandleAttach binds the caller's session to the microphone stream. The
// session middleware has already validated the token by the time this runs.
func (h *CommandHandler) HandleAttach(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	token, err := jwtPkg.TokenFromHeader(ctx)
	if err != nil {
		return errHandler.Handle(ctx, h.middleware.GetRequestID(ctx), err, ctx.Path(), "attach_session")
	}

	h.commandService.Pipeline().Attach(token)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
}

// HandleParse exposes the parser alone so the GUI shell can preview what a
// transcript would do without executing it.
func (h *CommandHandler) HandleParse(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)

	errHandler := handlerUtil.New(h.log)

	var req command.ParseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	cmd := h.commandService.Parser().Parse(req.Text)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, command.ParseResponse{Command: cmd})
}

func (h *CommandHandler) HandleListeningState(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, command.ListeningStateResponse{
		Listening: h.commandService.Pipeline().Listening(),
	})
}

func (h *CommandHandler) HandleHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	limit := ctx.QueryInt("limit", 50)

	records, err := h.commandRepo.NewClient().Logs.Recent(c, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "command_history")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, records)
}
