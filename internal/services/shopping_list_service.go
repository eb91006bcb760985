package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

// ShoppingListService manages list lifecycle: create, read, rename, delete, duplicate.
type ShoppingListService struct {
	access listAccess
	lists  repository.ShoppingListRepository
	items  repository.ShoppingListItemRepository
	log    *zap.Logger
}

// NewShoppingListService wires the list service.
func NewShoppingListService(lists repository.ShoppingListRepository, items repository.ShoppingListItemRepository, authProvider auth.Provider, log *zap.Logger) *ShoppingListService {
	return &ShoppingListService{
		access: listAccess{auth: authProvider, lists: lists, items: items},
		lists:  lists,
		items:  items,
		log:    log,
	}
}

// CreateList creates an empty list owned by the acting user.
func (s *ShoppingListService) CreateList(ctx context.Context, req models.CreateListRequest) (*models.ShoppingList, error) {
	userID, err := s.access.actor(ctx)
	if err != nil {
		return nil, err
	}

	name, err := models.ValidateName("List name", req.Name)
	if err != nil {
		return nil, err
	}

	list := &models.ShoppingList{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   trimOptional(req.Description),
		OwnerUserID:   userID,
		IsPublic:      req.IsPublic,
		Items:         []models.ShoppingListItem{},
		Collaborators: []models.ShoppingListCollaborator{},
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	s.log.Info("shopping list created", zap.String("list_id", list.ID), zap.String("user_id", userID))
	return list, nil
}

// GetList returns the list with items and collaborators. Public lists are readable by anyone signed in.
func (s *ShoppingListService) GetList(ctx context.Context, listID string) (*models.ShoppingList, error) {
	_, list, err := s.access.list(ctx, listID, canViewOrPublic)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListMyLists returns summaries of the lists the user owns or collaborates on.
func (s *ShoppingListService) ListMyLists(ctx context.Context) ([]models.ShoppingListSummary, error) {
	userID, err := s.access.actor(ctx)
	if err != nil {
		return nil, err
	}

	lists, err := s.lists.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}

	summaries := make([]models.ShoppingListSummary, 0, len(lists))
	for i := range lists {
		summaries = append(summaries, lists[i].Summary(userID))
	}
	return summaries, nil
}

// UpdateList renames or re-describes a list. Changing visibility is owner-only.
func (s *ShoppingListService) UpdateList(ctx context.Context, listID string, req models.UpdateListRequest) (*models.ShoppingList, error) {
	userID, list, err := s.access.list(ctx, listID, canModify)
	if err != nil {
		return nil, err
	}

	if req.IsPublic != nil && *req.IsPublic != list.IsPublic && list.UserRole(userID) != models.RoleOwner {
		return nil, errs.Forbidden("insufficient permissions")
	}

	updated := *list
	if req.Name != nil {
		name, err := models.ValidateName("List name", *req.Name)
		if err != nil {
			return nil, err
		}
		updated.Name = name
	}
	if req.Description != nil {
		updated.Description = trimOptional(req.Description)
	}
	if req.IsPublic != nil {
		updated.IsPublic = *req.IsPublic
	}

	if err := s.lists.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	return &updated, nil
}

// DeleteList removes the list with its items and collaborators. Owner only.
func (s *ShoppingListService) DeleteList(ctx context.Context, listID string) error {
	userID, list, err := s.access.list(ctx, listID, canShare)
	if err != nil {
		return err
	}

	if err := s.lists.Delete(ctx, list.ID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("list not found")
		}
		return fmt.Errorf("failed to delete list: %w", err)
	}

	s.log.Info("shopping list deleted", zap.String("list_id", list.ID), zap.String("user_id", userID))
	return nil
}

// DuplicateList copies a viewable list into a new list owned by the actor.
// Items are copied unchecked; collaborators are not copied.
func (s *ShoppingListService) DuplicateList(ctx context.Context, listID string, req models.DuplicateListRequest) (*models.ShoppingList, error) {
	userID, source, err := s.access.list(ctx, listID, canViewOrPublic)
	if err != nil {
		return nil, err
	}

	name := source.Name + " (copy)"
	if req.Name != nil {
		name = *req.Name
	}
	name, err = models.ValidateName("List name", name)
	if err != nil {
		return nil, err
	}

	list := &models.ShoppingList{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   source.Description,
		OwnerUserID:   userID,
		Collaborators: []models.ShoppingListCollaborator{},
	}
	if err := s.lists.Create(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to duplicate list: %w", err)
	}

	list.Items = make([]models.ShoppingListItem, 0, len(source.Items))
	for _, it := range source.Items {
		copied := it.WithReset()
		copied.ID = uuid.NewString()
		copied.ShoppingListID = list.ID
		saved, err := s.items.AddItem(ctx, list.ID, copied)
		if err != nil {
			s.discard(ctx, list.ID)
			return nil, fmt.Errorf("failed to duplicate list: %w", err)
		}
		list.Items = append(list.Items, saved)
	}

	return list, nil
}

// discard removes a partially built copy; its items cascade with it
func (s *ShoppingListService) discard(ctx context.Context, listID string) {
	if err := s.lists.Delete(context.WithoutCancel(ctx), listID); err != nil {
		s.log.Warn("failed to discard partial list copy", zap.String("list_id", listID), zap.Error(err))
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
