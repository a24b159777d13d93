package handlerUtil

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"EchoOS/pkg/log"
	"EchoOS/pkg/response"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle maps domain errors to their HTTP envelope. Every taxonomy error
// carries its status code and machine kind on the response.Error itself.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"kind":       respErr.Kind,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")

		payload := fiber.Map{"error": err.Error()}
		if respErr.Kind != "" {
			payload["kind"] = respErr.Kind
		}
		return c.Status(respErr.Code).JSON(payload)
	}

	traceID := log.ErrorWithTraceID(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}, "Unhandled internal error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":    "internal server error",
		"trace_id": traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Request validation failed")

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation failed",
			"details": details,
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "validation failed",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{
		"error": "request timed out",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, status int, data interface{}) error {
	if data == nil {
		return c.Status(status).JSON(fiber.Map{"success": true})
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
