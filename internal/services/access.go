package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

// listPredicate is one of the list permission checks
type listPredicate func(list *models.ShoppingList, userID string) bool

var (
	canView   listPredicate = (*models.ShoppingList).CanUserView
	canModify listPredicate = (*models.ShoppingList).CanUserModify
	canShare  listPredicate = (*models.ShoppingList).CanUserShare
)

// canViewOrPublic lets any signed-in user read a public list
func canViewOrPublic(list *models.ShoppingList, userID string) bool {
	return list.IsPublic || list.CanUserView(userID)
}

// listAccess runs the shared prologue of every operation:
// resolve the actor, load the list (or item and its list), check the role.
type listAccess struct {
	auth  auth.Provider
	lists repository.ShoppingListRepository
	items repository.ShoppingListItemRepository
}

func (a listAccess) actor(ctx context.Context) (string, error) {
	userID, err := a.auth.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthenticated) {
			return "", err
		}
		return "", errs.Wrap(errs.ErrUnauthenticated, "must sign in", err)
	}
	if userID == "" {
		return "", errs.Unauthenticated("must sign in")
	}
	return userID, nil
}

func (a listAccess) load(ctx context.Context, listID string) (*models.ShoppingList, error) {
	list, err := a.lists.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("list not found")
		}
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	return list, nil
}

// list resolves the actor and the list, then applies allowed
func (a listAccess) list(ctx context.Context, listID string, allowed listPredicate) (string, *models.ShoppingList, error) {
	userID, err := a.actor(ctx)
	if err != nil {
		return "", nil, err
	}
	list, err := a.load(ctx, listID)
	if err != nil {
		return "", nil, err
	}
	if !allowed(list, userID) {
		return "", nil, errs.Forbidden("insufficient permissions")
	}
	return userID, list, nil
}

// item resolves the actor and the item, then re-derives permission from the owning list
func (a listAccess) item(ctx context.Context, itemID string, allowed listPredicate) (string, *models.ShoppingList, models.ShoppingListItem, error) {
	userID, err := a.actor(ctx)
	if err != nil {
		return "", nil, models.ShoppingListItem{}, err
	}
	item, err := a.items.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", nil, models.ShoppingListItem{}, errs.NotFound("item not found")
		}
		return "", nil, models.ShoppingListItem{}, fmt.Errorf("failed to load item: %w", err)
	}
	list, err := a.load(ctx, item.ShoppingListID)
	if err != nil {
		return "", nil, models.ShoppingListItem{}, err
	}
	if !allowed(list, userID) {
		return "", nil, models.ShoppingListItem{}, errs.Forbidden("insufficient permissions")
	}
	return userID, list, item, nil
}
