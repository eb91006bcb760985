package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

// ShoppingListItemService manages the items of a list, including smart quick-add
type ShoppingListItemService struct {
	access     listAccess
	items      repository.ShoppingListItemRepository
	catalog    repository.CatalogSearchProvider
	parser     *SmartInputParser
	matcher    *ProductMatcher
	maxMatches int
	log        *zap.Logger
}

// NewShoppingListItemService wires the item service. maxMatches bounds quick-add suggestions.
func NewShoppingListItemService(
	lists repository.ShoppingListRepository,
	items repository.ShoppingListItemRepository,
	catalog repository.CatalogSearchProvider,
	authProvider auth.Provider,
	parser *SmartInputParser,
	matcher *ProductMatcher,
	maxMatches int,
	log *zap.Logger,
) *ShoppingListItemService {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return &ShoppingListItemService{
		access:     listAccess{auth: authProvider, lists: lists, items: items},
		items:      items,
		catalog:    catalog,
		parser:     parser,
		matcher:    matcher,
		maxMatches: maxMatches,
		log:        log,
	}
}

// AddItem validates the request through the item value objects and appends it to the list
func (s *ShoppingListItemService) AddItem(ctx context.Context, listID string, req models.AddItemRequest) (models.ShoppingListItem, error) {
	_, list, err := s.access.list(ctx, listID, canModify)
	if err != nil {
		return models.ShoppingListItem{}, err
	}

	quantity := 1.0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := models.NewShoppingListItem(models.NewItemParams{
		ID:             uuid.NewString(),
		ShoppingListID: list.ID,
		ProductID:      req.ProductID,
		CustomName:     req.CustomName,
		Quantity:       quantity,
		Unit:           req.Unit,
		Price:          req.Price,
		Barcode:        req.Barcode,
		Notes:          req.Notes,
	})
	if err != nil {
		return models.ShoppingListItem{}, err
	}

	return s.persistNew(ctx, list.ID, item)
}

// UpdateItem applies a partial patch, all-or-nothing
func (s *ShoppingListItemService) UpdateItem(ctx context.Context, itemID string, patch models.ItemPatch) (models.ShoppingListItem, error) {
	_, list, item, err := s.access.item(ctx, itemID, canModify)
	if err != nil {
		return models.ShoppingListItem{}, err
	}

	updated, err := item.WithUpdates(patch, list.ID)
	if err != nil {
		return models.ShoppingListItem{}, err
	}
	return s.persist(ctx, updated)
}

// ToggleItemCompletion checks or unchecks an item
func (s *ShoppingListItemService) ToggleItemCompletion(ctx context.Context, itemID string) (models.ShoppingListItem, error) {
	_, _, item, err := s.access.item(ctx, itemID, canModify)
	if err != nil {
		return models.ShoppingListItem{}, err
	}
	return s.persist(ctx, item.WithToggledCompletion())
}

// RemoveItem deletes an item from its list
func (s *ShoppingListItemService) RemoveItem(ctx context.Context, itemID string) error {
	_, _, item, err := s.access.item(ctx, itemID, canModify)
	if err != nil {
		return err
	}

	if err := s.items.RemoveItem(ctx, item.ID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("item not found")
		}
		return fmt.Errorf("failed to remove item from list: %w", err)
	}
	return nil
}

// ClearCompleted removes every checked item and returns how many were removed
func (s *ShoppingListItemService) ClearCompleted(ctx context.Context, listID string) (int, error) {
	_, list, err := s.access.list(ctx, listID, canModify)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, it := range list.Items {
		if !it.IsCompleted {
			continue
		}
		if err := s.items.RemoveItem(ctx, it.ID); err != nil {
			// Concurrently removed items are already gone
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return removed, fmt.Errorf("failed to clear completed items: %w", err)
		}
		removed++
	}
	return removed, nil
}

// PreviewQuickAdd parses text and looks up catalog matches without touching any list
func (s *ShoppingListItemService) PreviewQuickAdd(ctx context.Context, text string) (*models.QuickAddPreview, error) {
	if _, err := s.access.actor(ctx); err != nil {
		return nil, err
	}
	preview := s.preview(ctx, s.parser.Parse(text))
	return &preview, nil
}

// QuickAdd parses one line of free text, links a confident catalog match and adds the item
func (s *ShoppingListItemService) QuickAdd(ctx context.Context, listID, text string) (*models.QuickAddResult, error) {
	_, list, err := s.access.list(ctx, listID, canModify)
	if err != nil {
		return nil, err
	}

	return s.quickAdd(ctx, list.ID, s.parser.Parse(text))
}

// ImportItems quick-adds every line of a pasted list. Lines that fail validation
// are reported back; persistence failures abort the import.
func (s *ShoppingListItemService) ImportItems(ctx context.Context, listID, content string) (*models.ImportResult, error) {
	_, list, err := s.access.list(ctx, listID, canModify)
	if err != nil {
		return nil, err
	}

	parsed := s.parser.ParseList(content)
	result := &models.ImportResult{
		Added:       make([]models.QuickAddResult, 0, len(parsed)),
		TotalParsed: len(parsed),
	}

	for _, candidate := range parsed {
		added, err := s.quickAdd(ctx, list.ID, candidate)
		if err != nil {
			if errors.Is(err, errs.ErrValidation) {
				result.Errors = append(result.Errors, models.ImportLineError{
					LineNumber: candidate.LineNumber,
					RawText:    candidate.RawText,
					Error:      errs.UserMessage(err),
				})
				continue
			}
			return nil, err
		}
		if added.Preview.AutoLinked {
			result.LinkedCount++
		}
		result.Added = append(result.Added, *added)
	}

	s.log.Info("shopping list import finished",
		zap.String("list_id", list.ID),
		zap.Int("parsed", result.TotalParsed),
		zap.Int("added", len(result.Added)),
		zap.Int("linked", result.LinkedCount),
	)
	return result, nil
}

func (s *ShoppingListItemService) quickAdd(ctx context.Context, listID string, parsed models.ParsedItem) (*models.QuickAddResult, error) {
	if parsed.ProductName == "" {
		return nil, errs.Validation("Item name is required")
	}

	preview := s.preview(ctx, parsed)

	var productID *string
	if preview.AutoLinked {
		id := preview.BestMatch.Product.ID
		productID = &id
	}
	name := parsed.ProductName
	var notes *string
	if parsed.Notes != "" {
		notes = &parsed.Notes
	}

	item, err := models.NewShoppingListItem(models.NewItemParams{
		ID:             uuid.NewString(),
		ShoppingListID: listID,
		ProductID:      productID,
		CustomName:     &name,
		Quantity:       parsed.Quantity,
		Unit:           parsed.Unit,
		Price:          parsed.Price,
		Notes:          notes,
	})
	if err != nil {
		return nil, err
	}

	saved, err := s.persistNew(ctx, listID, item)
	if err != nil {
		return nil, err
	}
	return &models.QuickAddResult{Item: saved, Preview: preview}, nil
}

// preview searches the catalog for the candidate. Search is best effort:
// a failing catalog degrades to an unlinked item.
func (s *ShoppingListItemService) preview(ctx context.Context, parsed models.ParsedItem) models.QuickAddPreview {
	preview := models.QuickAddPreview{Parsed: parsed, Matches: []models.ProductMatch{}}
	if parsed.ProductName == "" || s.catalog == nil {
		return preview
	}

	results, err := s.catalog.Search(ctx, parsed.ProductName, s.maxMatches*2)
	if err != nil {
		s.log.Warn("catalog search failed", zap.String("query", parsed.ProductName), zap.Error(err))
		return preview
	}

	preview.Matches = s.matcher.FindBestMatches(parsed, results, s.maxMatches)
	if len(preview.Matches) > 0 {
		best := preview.Matches[0]
		preview.BestMatch = &best
		preview.AutoLinked = s.matcher.IsHighConfidenceMatch(parsed, best)
	}
	return preview
}

func (s *ShoppingListItemService) persistNew(ctx context.Context, listID string, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	saved, err := s.items.AddItem(ctx, listID, item)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.ShoppingListItem{}, errs.NotFound("list not found")
		}
		return models.ShoppingListItem{}, fmt.Errorf("failed to add item to list: %w", err)
	}
	return saved, nil
}

func (s *ShoppingListItemService) persist(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	saved, err := s.items.UpdateItem(ctx, item)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.ShoppingListItem{}, errs.NotFound("item not found")
		}
		return models.ShoppingListItem{}, fmt.Errorf("failed to update item: %w", err)
	}
	return saved, nil
}
