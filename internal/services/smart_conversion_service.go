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

// SmartConversionService links free-text items to the catalog and promotes
// bought items into new catalog products.
type SmartConversionService struct {
	access     listAccess
	items      repository.ShoppingListItemRepository
	search     repository.CatalogSearchProvider
	catalog    repository.CatalogRepository
	matcher    *ProductMatcher
	maxMatches int
	log        *zap.Logger
}

func NewSmartConversionService(
	lists repository.ShoppingListRepository,
	items repository.ShoppingListItemRepository,
	search repository.CatalogSearchProvider,
	catalog repository.CatalogRepository,
	authProvider auth.Provider,
	matcher *ProductMatcher,
	maxMatches int,
	log *zap.Logger,
) *SmartConversionService {
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}
	return &SmartConversionService{
		access:     listAccess{auth: authProvider, lists: lists, items: items},
		items:      items,
		search:     search,
		catalog:    catalog,
		matcher:    matcher,
		maxMatches: maxMatches,
		log:        log,
	}
}

// SuggestProducts ranks catalog products for an item the actor can view
func (s *SmartConversionService) SuggestProducts(ctx context.Context, itemID string) ([]models.ProductMatch, error) {
	_, _, item, err := s.access.item(ctx, itemID, canView)
	if err != nil {
		return nil, err
	}

	candidate := itemCandidate(item)
	if candidate.ProductName == "" {
		return []models.ProductMatch{}, nil
	}

	results, err := s.search.Search(ctx, candidate.ProductName, s.maxMatches*2)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	return s.matcher.FindBestMatches(candidate, results, s.maxMatches), nil
}

// LinkItemToProduct attaches an existing catalog product to an item
func (s *SmartConversionService) LinkItemToProduct(ctx context.Context, itemID, productID string) (models.ShoppingListItem, error) {
	_, _, item, err := s.access.item(ctx, itemID, canModify)
	if err != nil {
		return models.ShoppingListItem{}, err
	}

	productID = strings.TrimSpace(productID)
	if productID == "" {
		return models.ShoppingListItem{}, errs.Validation("Product id is required")
	}
	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.ShoppingListItem{}, errs.NotFound("product not found")
		}
		return models.ShoppingListItem{}, fmt.Errorf("failed to load product: %w", err)
	}

	linked, err := item.WithProduct(product.ID, product.Name)
	if err != nil {
		return models.ShoppingListItem{}, err
	}
	return s.save(ctx, linked)
}

// ConvertItemToProduct creates a catalog product, with brand, store and a price
// entry, from a completed free-text item and links the item to it.
func (s *SmartConversionService) ConvertItemToProduct(ctx context.Context, itemID string, req models.ConvertItemRequest) (*models.ProductConversion, error) {
	userID, _, item, err := s.access.item(ctx, itemID, canModify)
	if err != nil {
		return nil, err
	}

	if !item.IsCompleted {
		return nil, errs.BusinessRule("Only completed items can be converted to products")
	}
	if item.ProductID != nil {
		return nil, errs.BusinessRule("Item is already linked to a product")
	}
	if item.CustomName == nil || strings.TrimSpace(*item.CustomName) == "" {
		return nil, errs.BusinessRule("Item needs a name to become a product")
	}
	if item.Price == nil {
		return nil, errs.BusinessRule("Item needs a price to become a product")
	}

	brand := strings.TrimSpace(req.BrandName)
	if brand == "" {
		return nil, errs.Validation("Brand name is required")
	}
	store := strings.TrimSpace(req.StoreName)
	if store == "" {
		return nil, errs.Validation("Store name is required")
	}

	params := models.CreateProductParams{
		ProductID:     uuid.NewString(),
		PriceID:       uuid.NewString(),
		Name:          strings.TrimSpace(*item.CustomName),
		BrandName:     brand,
		StoreName:     store,
		StoreLocation: trimOptional(req.StoreLocation),
		Category:      trimOptional(req.Category),
		Barcode:       trimOptional(req.Barcode),
		Price:         item.Price.Value(),
		Unit:          item.Unit,
		Quantity:      item.Quantity.Value(),
		CreatedBy:     userID,
	}
	if params.Barcode == nil {
		params.Barcode = item.Barcode
	}

	product, err := s.catalog.CreateProductWithPrice(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	linked, err := item.WithProduct(product.ID, product.Name)
	if err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, linked)
	if err != nil {
		return nil, err
	}

	s.log.Info("list item converted to product",
		zap.String("item_id", item.ID),
		zap.String("product_id", product.ID),
		zap.String("user_id", userID),
	)
	return &models.ProductConversion{Product: *product, PriceID: params.PriceID, Item: saved}, nil
}

func (s *SmartConversionService) save(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	saved, err := s.items.UpdateItem(ctx, item)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.ShoppingListItem{}, errs.NotFound("item not found")
		}
		return models.ShoppingListItem{}, fmt.Errorf("failed to update item: %w", err)
	}
	return saved, nil
}

// itemCandidate describes an existing item the way the parser would
func itemCandidate(item models.ShoppingListItem) models.ParsedItem {
	candidate := models.ParsedItem{
		RawText:     item.DisplayName(),
		Quantity:    item.Quantity.Value(),
		Unit:        string(item.Unit),
		ProductName: item.DisplayName(),
		Confidence:  1,
	}
	if item.Price != nil {
		v := item.Price.Value()
		candidate.Price = &v
	}
	return candidate
}
