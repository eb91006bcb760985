package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/services"
)

// Services are the application services the handlers expose
type Services struct {
	Auth    *services.AuthService
	Lists   *services.ShoppingListService
	Items   *services.ShoppingListItemService
	Sharing *services.SharingService
	Smart   *services.SmartConversionService
	Scans   *services.ScanService // nil when OCR is unavailable
}

// Handler holds all handler dependencies
type Handler struct {
	auth    *services.AuthService
	lists   *services.ShoppingListService
	items   *services.ShoppingListItemService
	sharing *services.SharingService
	smart   *services.SmartConversionService
	scans   *services.ScanService
	log     *zap.Logger
}

// New creates a new Handler instance
func New(svc Services, log *zap.Logger) *Handler {
	return &Handler{
		auth:    svc.Auth,
		lists:   svc.Lists,
		items:   svc.Items,
		sharing: svc.Sharing,
		smart:   svc.Smart,
		scans:   svc.Scans,
		log:     log,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return Error(c, code, message)
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Created returns a successful response with status 201
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondError maps a service error to its HTTP status. Unkinded errors are logged and hidden.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errs.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, errs.ErrAlreadyExists):
		status = fiber.StatusConflict
	case errors.Is(err, errs.ErrBusinessRule):
		status = fiber.StatusUnprocessableEntity
	}

	msg := errs.UserMessage(err)
	if status == fiber.StatusInternalServerError || msg == "" {
		h.log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return Error(c, fiber.StatusInternalServerError, "internal server error")
	}
	return Error(c, status, msg)
}

// Health reports that the server is up
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
