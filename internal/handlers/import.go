package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// QuickAddItem parses one line of free text and adds it to the list
// POST /api/lists/:id/items/quick-add
func (h *Handler) QuickAddItem(c *fiber.Ctx) error {
	var req models.QuickAddRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return Error(c, fiber.StatusBadRequest, "text is required")
	}

	result, err := h.items.QuickAdd(c.UserContext(), c.Params("id"), req.Text)
	if err != nil {
		return h.respondError(c, err)
	}
	return Created(c, result)
}

// PreviewQuickAdd shows how text would be parsed and matched without adding anything
// POST /api/quick-add/preview
func (h *Handler) PreviewQuickAdd(c *fiber.Ctx) error {
	var req models.QuickAddRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	preview, err := h.items.PreviewQuickAdd(c.UserContext(), req.Text)
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, preview)
}

// ImportListItems adds every line of a pasted list
// POST /api/lists/:id/items/import
func (h *Handler) ImportListItems(c *fiber.Ctx) error {
	var req models.ImportItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return Error(c, fiber.StatusBadRequest, "content is required")
	}

	result, err := h.items.ImportItems(c.UserContext(), c.Params("id"), req.Content)
	if err != nil {
		return h.respondError(c, err)
	}
	if result.TotalParsed == 0 {
		return Error(c, fiber.StatusBadRequest, "no items found in shopping list")
	}
	return Success(c, result)
}
