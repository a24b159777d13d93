package authHandler

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"

	"EchoOS/internal/api/auth"
	contextPkg "EchoOS/pkg/context"
	"EchoOS/pkg/handlerUtil"
	jwtPkg "EchoOS/pkg/jwt"
)

// sampleFromForm reads the uploaded WAV sample; absent file yields nil so
// the service can fall through to password enrollment.
func sampleFromForm(ctx *fiber.Ctx) ([]byte, error) {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func (h *AuthHandler) HandleRegister(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	req := auth.RegisterUserRequest{
		Username: ctx.FormValue("username"),
		Password: ctx.FormValue("password"),
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	sample, err := sampleFromForm(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_audio_sample")
	}

	res, err := h.authService.User().Register(c, req, sample)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "register_user")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
}

func (h *AuthHandler) HandleVoiceLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sample, err := sampleFromForm(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_audio_sample")
	}
	if len(sample) == 0 {
		return errHandler.Handle(ctx, requestID, auth.ErrInsufficientAudio, ctx.Path(), "read_audio_sample")
	}

	res, err := h.authService.Auth().Authenticate(c, sample)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "voice_login")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *AuthHandler) HandlePasswordLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req auth.PasswordLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.authService.Auth().AuthenticatePassword(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "password_login")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *AuthHandler) HandleLogout(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	token, err := jwtPkg.TokenFromHeader(ctx)
	if err != nil {
		// Logout with no token is still a success; nothing to remove.
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
	}

	if err := h.authService.Session().Logout(c, token); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "logout")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
}

func (h *AuthHandler) HandleValidateSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	token, err := jwtPkg.TokenFromHeader(ctx)
	if err != nil {
		return errHandler.Handle(ctx, requestID, auth.ErrSessionNotFound, ctx.Path(), "validate_session")
	}

	session, err := h.authService.Session().Validate(c, token)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, auth.SessionResponse{
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}

func (h *AuthHandler) HandleDeleteUser(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	username := ctx.Params("username")
	if username == "" {
		return errHandler.Handle(ctx, requestID, auth.ErrUserNotFound, ctx.Path(), "delete_user")
	}

	if err := h.authService.User().Delete(c, username); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_user")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
}
