package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

func TestSuggestProducts(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")
	item := f.addItem(t, aliceCtx, list.ID, "green apples")

	matches, err := f.smart.SuggestProducts(aliceCtx, item.ID)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "prod-apples", matches[0].Product.ID)
	assert.InDelta(t, 0.7, matches[0].Similarity, 1e-9)
}

func TestLinkItemToProduct(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	_, bobCtx := f.signUp(t, "bob@example.com", "Bob")
	list := f.newList(t, aliceCtx, "Groceries")
	item := f.addItem(t, aliceCtx, list.ID, "citrons")
	_, err := f.sharing.ShareList(aliceCtx, list.ID, models.ShareListRequest{Email: "bob@example.com", Role: "VIEWER"})
	require.NoError(t, err)

	_, err = f.smart.LinkItemToProduct(bobCtx, item.ID, "prod-lemons")
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.smart.LinkItemToProduct(aliceCtx, item.ID, "prod-missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "product not found", errs.UserMessage(err))

	linked, err := f.smart.LinkItemToProduct(aliceCtx, item.ID, "prod-lemons")
	require.NoError(t, err)
	require.NotNil(t, linked.ProductID)
	assert.Equal(t, "prod-lemons", *linked.ProductID)
	require.NotNil(t, linked.ProductName)
	assert.Equal(t, "Lemons", *linked.ProductName)
	assert.Equal(t, "citrons", linked.DisplayName())
}

func TestConvertItemToProduct(t *testing.T) {
	f := newFixture(t)
	aliceID, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	item, err := f.items.AddItem(aliceCtx, list.ID, models.AddItemRequest{
		CustomName: ptr("Lavender honey"),
		Quantity:   ptr(0.5),
		Unit:       "kg",
		Price:      ptr(6.5),
	})
	require.NoError(t, err)
	_, err = f.items.ToggleItemCompletion(aliceCtx, item.ID)
	require.NoError(t, err)

	conversion, err := f.smart.ConvertItemToProduct(aliceCtx, item.ID, models.ConvertItemRequest{
		BrandName: " Miel & Co ",
		StoreName: "Biocoop",
		Category:  ptr("pantry"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Lavender honey", conversion.Product.Name)
	require.NotNil(t, conversion.Product.Brand)
	assert.Equal(t, "Miel & Co", *conversion.Product.Brand)
	require.NotNil(t, conversion.Product.CreatedBy)
	assert.Equal(t, aliceID, *conversion.Product.CreatedBy)
	assert.NotEmpty(t, conversion.PriceID)
	require.NotNil(t, conversion.Item.ProductID)
	assert.Equal(t, conversion.Product.ID, *conversion.Item.ProductID)

	// The new product is immediately searchable
	results, err := f.store.Catalog().Search(aliceCtx, "honey", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].BestStore)
	assert.Equal(t, "Biocoop", *results[0].BestStore)

	_, err = f.smart.ConvertItemToProduct(aliceCtx, item.ID, models.ConvertItemRequest{BrandName: "x", StoreName: "y"})
	require.ErrorIs(t, err, errs.ErrBusinessRule)
}

func TestConvertItemToProductPreconditions(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	open, err := f.items.AddItem(aliceCtx, list.ID, models.AddItemRequest{CustomName: ptr("jam"), Price: ptr(3.0)})
	require.NoError(t, err)

	unpriced := f.addItem(t, aliceCtx, list.ID, "tea")
	_, err = f.items.ToggleItemCompletion(aliceCtx, unpriced.ID)
	require.NoError(t, err)

	priced, err := f.items.AddItem(aliceCtx, list.ID, models.AddItemRequest{CustomName: ptr("coffee"), Price: ptr(4.0)})
	require.NoError(t, err)
	_, err = f.items.ToggleItemCompletion(aliceCtx, priced.ID)
	require.NoError(t, err)

	valid := models.ConvertItemRequest{BrandName: "Brand", StoreName: "Store"}
	tests := []struct {
		name   string
		itemID string
		req    models.ConvertItemRequest
		kind   error
	}{
		{"not completed", open.ID, valid, errs.ErrBusinessRule},
		{"no price", unpriced.ID, valid, errs.ErrBusinessRule},
		{"no brand", priced.ID, models.ConvertItemRequest{StoreName: "Store"}, errs.ErrValidation},
		{"no store", priced.ID, models.ConvertItemRequest{BrandName: "Brand"}, errs.ErrValidation},
		{"unknown item", "missing", valid, errs.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.smart.ConvertItemToProduct(aliceCtx, tt.itemID, tt.req)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}
