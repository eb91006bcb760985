package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// ListShoppingLists returns summaries of the lists the user owns or collaborates on
func (h *Handler) ListShoppingLists(c *fiber.Ctx) error {
	lists, err := h.lists.ListMyLists(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, lists)
}

// GetShoppingList returns a single shopping list with items and collaborators
func (h *Handler) GetShoppingList(c *fiber.Ctx) error {
	list, err := h.lists.GetList(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, list)
}

// CreateShoppingList creates a new shopping list
func (h *Handler) CreateShoppingList(c *fiber.Ctx) error {
	var req models.CreateListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	list, err := h.lists.CreateList(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return Created(c, list)
}

// UpdateShoppingList renames, re-describes or publishes a list
func (h *Handler) UpdateShoppingList(c *fiber.Ctx) error {
	var req models.UpdateListRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	list, err := h.lists.UpdateList(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, list)
}

// DeleteShoppingList deletes a shopping list
func (h *Handler) DeleteShoppingList(c *fiber.Ctx) error {
	if err := h.lists.DeleteList(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DuplicateShoppingList creates a copy of a shopping list
func (h *Handler) DuplicateShoppingList(c *fiber.Ctx) error {
	var req models.DuplicateListRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	list, err := h.lists.DuplicateList(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return Created(c, list)
}
