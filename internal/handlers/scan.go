package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
)

// maxScanUpload bounds the size of an uploaded list photo
const maxScanUpload = 10 * 1024 * 1024

// ScanListPhoto reads a photo of a handwritten list and imports its lines
// POST /api/lists/:id/items/scan
func (h *Handler) ScanListPhoto(c *fiber.Ctx) error {
	if h.scans == nil {
		return Error(c, fiber.StatusServiceUnavailable, "photo scanning is not available")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}
	if file.Size > maxScanUpload {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	photo, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	result, err := h.scans.ScanList(c.UserContext(), c.Params("id"), photo)
	if err != nil {
		return h.respondError(c, err)
	}
	return Success(c, result)
}
