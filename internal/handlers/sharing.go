package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// GetCollaborators lists who a shopping list is shared with
func (h *Handler) GetCollaborators(c *fiber.Ctx) error {
	collaborators, err := h.sharing.GetCollaborators(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, collaborators)
}

// ShareList invites a user by email
func (h *Handler) ShareList(c *fiber.Ctx) error {
	var req models.ShareListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	collaborator, err := h.sharing.ShareList(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return Created(c, collaborator)
}

// UpdateCollaboratorRole changes a collaborator's role
func (h *Handler) UpdateCollaboratorRole(c *fiber.Ctx) error {
	var req models.UpdateCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	collaborator, err := h.sharing.UpdateCollaboratorRole(c.UserContext(), c.Params("id"), c.Params("user_id"), req.Role)
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, collaborator)
}

// RemoveCollaborator revokes a collaborator's access
func (h *Handler) RemoveCollaborator(c *fiber.Ctx) error {
	if err := h.sharing.RemoveCollaborator(c.UserContext(), c.Params("id"), c.Params("user_id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LeaveSharedList removes the current user from a list shared with them
func (h *Handler) LeaveSharedList(c *fiber.Ctx) error {
	if err := h.sharing.LeaveSharedList(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
