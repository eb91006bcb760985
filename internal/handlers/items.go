package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// AddListItem adds an item to a shopping list
func (h *Handler) AddListItem(c *fiber.Ctx) error {
	var req models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.items.AddItem(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return Created(c, item)
}

// UpdateListItem applies a partial update to an item
func (h *Handler) UpdateListItem(c *fiber.Ctx) error {
	var patch models.ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if patch.IsEmpty() {
		return Error(c, fiber.StatusBadRequest, "no fields to update")
	}

	item, err := h.items.UpdateItem(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, item)
}

// ToggleListItem checks or unchecks an item
func (h *Handler) ToggleListItem(c *fiber.Ctx) error {
	item, err := h.items.ToggleItemCompletion(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, item)
}

// RemoveListItem removes an item from its list
func (h *Handler) RemoveListItem(c *fiber.Ctx) error {
	if err := h.items.RemoveItem(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearCompletedItems removes every checked item of a list
func (h *Handler) ClearCompletedItems(c *fiber.Ctx) error {
	removed, err := h.items.ClearCompleted(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, fiber.Map{"removed": removed})
}

// SuggestProducts ranks catalog products for an item
func (h *Handler) SuggestProducts(c *fiber.Ctx) error {
	matches, err := h.smart.SuggestProducts(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, matches)
}

// LinkItemToProduct links an item to an existing catalog product
func (h *Handler) LinkItemToProduct(c *fiber.Ctx) error {
	var req models.LinkProductRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.smart.LinkItemToProduct(c.UserContext(), c.Params("id"), req.ProductID)
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, item)
}

// ConvertItemToProduct promotes a bought item into a new catalog product
func (h *Handler) ConvertItemToProduct(c *fiber.Ctx) error {
	var req models.ConvertItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	conversion, err := h.smart.ConvertItemToProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return Created(c, conversion)
}
