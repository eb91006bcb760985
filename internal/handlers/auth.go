package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// RegisterUser handles user registration
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user authentication
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// GetCurrentUser returns the currently authenticated user
func (h *Handler) GetCurrentUser(c *fiber.Ctx) error {
	user, err := h.auth.Me(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, user)
}
