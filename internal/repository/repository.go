// Package repository declares the persistence contracts the services depend on.
// Implementations return errs.ErrNotFound when the requested row does not exist.
package repository

import (
	"context"

	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// ShoppingListRepository loads and stores list aggregates.
type ShoppingListRepository interface {
	// FindByID returns the list with its items and collaborators.
	FindByID(ctx context.Context, id string) (*models.ShoppingList, error)
	// FindByUser returns the lists the user owns or collaborates on, newest first.
	FindByUser(ctx context.Context, userID string) ([]models.ShoppingList, error)
	Create(ctx context.Context, list *models.ShoppingList) error
	// Update persists name, description and visibility.
	Update(ctx context.Context, list *models.ShoppingList) error
	// Delete removes the list; items and collaborators cascade.
	Delete(ctx context.Context, id string) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ShoppingListItemRepository stores list items.
type ShoppingListItemRepository interface {
	AddItem(ctx context.Context, listID string, item models.ShoppingListItem) (models.ShoppingListItem, error)
	UpdateItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	FindItemByID(ctx context.Context, itemID string) (models.ShoppingListItem, error)
}

// SharingRepository stores collaborator grants.
type SharingRepository interface {
	GetCollaborators(ctx context.Context, listID string) ([]models.ShoppingListCollaborator, error)
	// AddCollaborator upserts: an existing grant for the same user gets the new role.
	AddCollaborator(ctx context.Context, listID, userID string, role models.Role) (models.ShoppingListCollaborator, error)
	UpdateCollaboratorRole(ctx context.Context, listID, userID string, role models.Role) (models.ShoppingListCollaborator, error)
	RemoveCollaborator(ctx context.Context, listID, userID string) error
}

// CatalogSearchProvider finds catalog products for free-text terms.
type CatalogSearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]models.ProductSearchResult, error)
}

// CatalogRepository reads and creates catalog products.
type CatalogRepository interface {
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
	// CreateProductWithPrice gets or creates the brand and store, creates the product
	// and records its price in one transaction.
	CreateProductWithPrice(ctx context.Context, params models.CreateProductParams) (*models.Product, error)
}

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
