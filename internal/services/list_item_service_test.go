package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

func TestAddItemDefaults(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	item, err := f.items.AddItem(aliceCtx, list.ID, models.AddItemRequest{CustomName: ptr(" eggs ")})

	require.NoError(t, err)
	assert.Equal(t, "eggs", item.DisplayName())
	assert.Equal(t, 1.0, item.Quantity.Value())
	assert.Equal(t, models.UnitUnit, item.Unit)
	assert.False(t, item.IsCompleted)
	assert.Equal(t, list.ID, item.ShoppingListID)
}

func TestAddItemValidation(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	tests := []struct {
		name string
		req  models.AddItemRequest
		msg  string
	}{
		{"zero quantity", models.AddItemRequest{CustomName: ptr("eggs"), Quantity: ptr(0.0)}, "Quantity must be at least 0.01"},
		{"bad unit", models.AddItemRequest{CustomName: ptr("eggs"), Unit: "dozen"}, "Unit must be one of unit, kg, g, l, ml, piece"},
		{"negative price", models.AddItemRequest{CustomName: ptr("eggs"), Price: ptr(-1.0)}, "Price cannot be negative"},
		{"anonymous item", models.AddItemRequest{CustomName: ptr("  ")}, "Item needs a name or a product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.items.AddItem(aliceCtx, list.ID, tt.req)
			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tt.msg, errs.UserMessage(err))
		})
	}

	got, err := f.lists.GetList(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestUpdateItemIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")
	item := f.addItem(t, aliceCtx, list.ID, "rice")

	_, err := f.items.UpdateItem(aliceCtx, item.ID, models.ItemPatch{CustomName: ptr("basmati"), Quantity: ptr(-2.0)})
	require.ErrorIs(t, err, errs.ErrValidation)

	got, err := f.lists.GetList(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, "rice", got.Items[0].DisplayName())

	updated, err := f.items.UpdateItem(aliceCtx, item.ID, models.ItemPatch{CustomName: ptr("basmati"), Price: ptr(2.5), Unit: ptr("KG")})
	require.NoError(t, err)
	assert.Equal(t, "basmati", updated.DisplayName())
	assert.Equal(t, models.UnitKg, updated.Unit)
	require.NotNil(t, updated.Price)
	assert.Equal(t, 2.5, updated.Price.Value())

	cleared, err := f.items.UpdateItem(aliceCtx, item.ID, models.ItemPatch{ClearPrice: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Price)

	_, err = f.items.UpdateItem(aliceCtx, "missing", models.ItemPatch{Quantity: ptr(1.0)})
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "item not found", errs.UserMessage(err))
}

func TestToggleRemoveAndClearCompleted(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	_, bobCtx := f.signUp(t, "bob@example.com", "Bob")
	list := f.newList(t, aliceCtx, "Groceries")
	bread := f.addItem(t, aliceCtx, list.ID, "bread")
	milk := f.addItem(t, aliceCtx, list.ID, "milk")
	jam := f.addItem(t, aliceCtx, list.ID, "jam")

	toggled, err := f.items.ToggleItemCompletion(aliceCtx, bread.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted)
	_, err = f.items.ToggleItemCompletion(aliceCtx, milk.ID)
	require.NoError(t, err)

	// Strangers cannot touch items
	_, err = f.items.ToggleItemCompletion(bobCtx, jam.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)
	err = f.items.RemoveItem(bobCtx, jam.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	removed, err := f.items.ClearCompleted(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	require.NoError(t, f.items.RemoveItem(aliceCtx, jam.ID))

	got, err := f.lists.GetList(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	removed, err = f.items.ClearCompleted(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func seedCatalog(f *fixture) {
	f.store.Catalog().AddProduct(models.ProductSearchResult{
		ID:   "prod-apples",
		Name: "Apples",
		Prices: []models.StorePrice{
			{StoreID: "s1", StoreName: "Carrefour", Price: 2.9},
			{StoreID: "s2", StoreName: "Lidl", Price: 2.5},
		},
	})
	f.store.Catalog().AddProduct(models.ProductSearchResult{ID: "prod-lemons", Name: "Lemons"})
}

func TestQuickAddLinksConfidentMatch(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	result, err := f.items.QuickAdd(aliceCtx, list.ID, "2 kg apples (green ones)")
	require.NoError(t, err)

	assert.True(t, result.Preview.AutoLinked)
	require.NotNil(t, result.Preview.BestMatch)
	assert.Equal(t, "prod-apples", result.Preview.BestMatch.Product.ID)
	assert.Equal(t, "high", result.Preview.BestMatch.ConfidenceLevel)

	item := result.Item
	require.NotNil(t, item.ProductID)
	assert.Equal(t, "prod-apples", *item.ProductID)
	require.NotNil(t, item.ProductName)
	assert.Equal(t, "Apples", *item.ProductName)
	assert.Equal(t, "apples", item.DisplayName())
	assert.Equal(t, 2.0, item.Quantity.Value())
	assert.Equal(t, models.UnitKg, item.Unit)
	require.NotNil(t, item.Notes)
	assert.Equal(t, "green ones", *item.Notes)
}

func TestQuickAddKeepsLowConfidenceUnlinked(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	result, err := f.items.QuickAdd(aliceCtx, list.ID, "3 lemons")
	require.NoError(t, err)

	assert.False(t, result.Preview.AutoLinked)
	require.NotEmpty(t, result.Preview.Matches)
	assert.Equal(t, "prod-lemons", result.Preview.Matches[0].Product.ID)
	assert.Nil(t, result.Item.ProductID)
	assert.Equal(t, 3.0, result.Item.Quantity.Value())
}

func TestQuickAddRejectsNamelessInput(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	_, bobCtx := f.signUp(t, "bob@example.com", "Bob")
	list := f.newList(t, aliceCtx, "Groceries")

	_, err := f.items.QuickAdd(aliceCtx, list.ID, "   ")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.items.QuickAdd(bobCtx, list.ID, "2 kg apples")
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestQuickAddDegradesWhenCatalogFails(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	items := NewShoppingListItemService(f.store.Lists(), f.store.Items(), failingSearch{}, auth.NewContextProvider(),
		NewSmartInputParser(), NewProductMatcher(), 5, zap.NewNop())

	result, err := items.QuickAdd(aliceCtx, list.ID, "2 kg apples")
	require.NoError(t, err)
	assert.False(t, result.Preview.AutoLinked)
	assert.Empty(t, result.Preview.Matches)
	assert.Nil(t, result.Item.ProductID)
}

func TestPreviewQuickAddDoesNotTouchLists(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	preview, err := f.items.PreviewQuickAdd(aliceCtx, "apples 2 kilos 3,20 €")
	require.NoError(t, err)
	assert.Equal(t, "apples", preview.Parsed.ProductName)
	assert.True(t, preview.AutoLinked)
	require.NotNil(t, preview.BestMatch.PriceDeviation)

	got, err := f.lists.GetList(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	_, err = f.items.PreviewQuickAdd(context.Background(), "apples")
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestImportItemsCollectsLineErrors(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	content := "- [ ] 2 kg apples\n\n# Dairy\n* milk 1,5 l\n42\n"
	result, err := f.items.ImportItems(aliceCtx, list.ID, content)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalParsed)
	assert.Equal(t, 1, result.LinkedCount)
	require.Len(t, result.Added, 2)
	assert.Equal(t, "apples", result.Added[0].Item.DisplayName())
	assert.Equal(t, "milk", result.Added[1].Item.DisplayName())
	assert.Equal(t, models.UnitL, result.Added[1].Item.Unit)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 5, result.Errors[0].LineNumber)
	assert.Equal(t, "42", result.Errors[0].RawText)
	assert.Equal(t, "Item name is required", result.Errors[0].Error)

	got, err := f.lists.GetList(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}
