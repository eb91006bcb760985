package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/middleware"
)

// Register mounts every route on app. The scan route is only mounted when scanning is wired.
func (h *Handler) Register(app *fiber.App, tokens *auth.TokenIssuer) {
	requireAuth := middleware.AuthRequired(tokens)

	app.Get("/health", h.Health)

	api := app.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.RegisterUser)
	authRoutes.Post("/login", h.Login)
	authRoutes.Get("/me", requireAuth, h.GetCurrentUser)

	// Lists
	lists := api.Group("/lists", requireAuth)
	lists.Get("/", h.ListShoppingLists)
	lists.Post("/", h.CreateShoppingList)
	lists.Get("/:id", h.GetShoppingList)
	lists.Put("/:id", h.UpdateShoppingList)
	lists.Delete("/:id", h.DeleteShoppingList)
	lists.Post("/:id/duplicate", h.DuplicateShoppingList)

	lists.Post("/:id/items", h.AddListItem)
	lists.Post("/:id/items/quick-add", h.QuickAddItem)
	lists.Post("/:id/items/import", h.ImportListItems)
	lists.Delete("/:id/items/completed", h.ClearCompletedItems)
	if h.scans != nil {
		lists.Post("/:id/items/scan", h.ScanListPhoto)
	}

	lists.Get("/:id/collaborators", h.GetCollaborators)
	lists.Post("/:id/collaborators", h.ShareList)
	lists.Put("/:id/collaborators/:user_id", h.UpdateCollaboratorRole)
	lists.Delete("/:id/collaborators/:user_id", h.RemoveCollaborator)
	lists.Post("/:id/leave", h.LeaveSharedList)

	// Items
	items := api.Group("/items", requireAuth)
	items.Put("/:id", h.UpdateListItem)
	items.Delete("/:id", h.RemoveListItem)
	items.Post("/:id/toggle", h.ToggleListItem)
	items.Get("/:id/suggestions", h.SuggestProducts)
	items.Post("/:id/link", h.LinkItemToProduct)
	items.Post("/:id/convert", h.ConvertItemToProduct)

	api.Post("/quick-add/preview", requireAuth, h.PreviewQuickAdd)
}
