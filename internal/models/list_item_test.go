package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

func ptr[T any](v T) *T { return &v }

func newApples(t *testing.T) ShoppingListItem {
	t.Helper()
	item, err := NewShoppingListItem(NewItemParams{
		ID:             "item-1",
		ShoppingListID: "list-1",
		CustomName:     ptr("apples"),
		Quantity:       2,
		Unit:           "kg",
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	return item
}

func TestNewShoppingListItem(t *testing.T) {
	item := newApples(t)

	assert.Equal(t, "apples", item.DisplayName())
	assert.Equal(t, 2.0, item.Quantity.Value())
	assert.Equal(t, UnitKg, item.Unit)
	assert.Nil(t, item.Price)
	assert.False(t, item.IsCompleted)
}

func TestNewShoppingListItemDefaultsUnit(t *testing.T) {
	item, err := NewShoppingListItem(NewItemParams{CustomName: ptr("bread"), Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, UnitUnit, item.Unit)
}

func TestNewShoppingListItemValidation(t *testing.T) {
	tests := []struct {
		name   string
		params NewItemParams
		msg    string
	}{
		{"quantity", NewItemParams{CustomName: ptr("x"), Quantity: 0}, "Quantity must be at least 0.01"},
		{"unit", NewItemParams{CustomName: ptr("x"), Quantity: 1, Unit: "stone"}, "Unit must be one of unit, kg, g, l, ml, piece"},
		{"price", NewItemParams{CustomName: ptr("x"), Quantity: 1, Price: ptr(-1.0)}, "Price cannot be negative"},
		{"anonymous", NewItemParams{CustomName: ptr("  "), Quantity: 1}, "Item needs a name or a product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShoppingListItem(tt.params)
			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, tt.msg, errs.UserMessage(err))
		})
	}
}

func TestNewShoppingListItemProductOnly(t *testing.T) {
	item, err := NewShoppingListItem(NewItemParams{ProductID: ptr("p-1"), Quantity: 1})
	require.NoError(t, err)
	assert.Nil(t, item.CustomName)
	assert.Equal(t, "p-1", *item.ProductID)
}

func TestWithQuantityDoesNotMutateReceiver(t *testing.T) {
	item := newApples(t)

	next, err := item.WithQuantity(5)
	require.NoError(t, err)

	assert.Equal(t, 2.0, item.Quantity.Value())
	assert.Equal(t, 5.0, next.Quantity.Value())
	assert.Equal(t, item.ID, next.ID)
}

func TestWithTransitions(t *testing.T) {
	item := newApples(t)

	renamed, err := item.WithName("green apples")
	require.NoError(t, err)
	assert.Equal(t, "green apples", *renamed.CustomName)
	assert.Equal(t, "apples", *item.CustomName)

	priced, err := item.WithPrice(ptr(3.2))
	require.NoError(t, err)
	assert.Equal(t, 3.2, priced.Price.Value())
	assert.Nil(t, item.Price)

	completed := item.WithCompletion(true)
	assert.True(t, completed.IsCompleted)
	assert.False(t, item.IsCompleted)
	assert.False(t, completed.WithReset().IsCompleted)
	assert.False(t, completed.WithToggledCompletion().IsCompleted)

	barcoded := item.WithBarcode(ptr("3017620422003"))
	assert.Equal(t, "3017620422003", *barcoded.Barcode)
	assert.Nil(t, barcoded.WithBarcode(ptr(" ")).Barcode)

	_, err = item.WithUnit("stone")
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = item.WithName("")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestWithUpdatesAllOrNothing(t *testing.T) {
	item := newApples(t)

	_, err := item.WithUpdates(ItemPatch{
		CustomName: ptr("pears"),
		Quantity:   ptr(0.001),
	}, "list-1")
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, "apples", *item.CustomName)
	assert.Equal(t, 2.0, item.Quantity.Value())

	next, err := item.WithUpdates(ItemPatch{
		CustomName:  ptr("pears"),
		Quantity:    ptr(3.0),
		Unit:        ptr("piece"),
		Price:       ptr(0.5),
		IsCompleted: ptr(true),
		Notes:       ptr("ripe"),
	}, "list-1")
	require.NoError(t, err)
	assert.Equal(t, "pears", *next.CustomName)
	assert.Equal(t, 3.0, next.Quantity.Value())
	assert.Equal(t, UnitPiece, next.Unit)
	assert.Equal(t, 0.5, next.Price.Value())
	assert.True(t, next.IsCompleted)
	assert.Equal(t, "ripe", *next.Notes)

	cleared, err := next.WithUpdates(ItemPatch{ClearPrice: true}, "list-1")
	require.NoError(t, err)
	assert.Nil(t, cleared.Price)
}

func TestWithUpdatesRejectsForeignList(t *testing.T) {
	item := newApples(t)

	_, err := item.WithUpdates(ItemPatch{Quantity: ptr(1.0)}, "list-2")
	require.ErrorIs(t, err, errs.ErrBusinessRule)
}

func TestWithProduct(t *testing.T) {
	item := newApples(t)

	linked, err := item.WithProduct("p-9", "Gala Apples")
	require.NoError(t, err)
	assert.Equal(t, "p-9", *linked.ProductID)
	assert.Equal(t, "Gala Apples", *linked.ProductName)
	assert.Nil(t, item.ProductID)

	_, err = item.WithProduct(" ", "")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestEstimateTotal(t *testing.T) {
	q, _ := NewItemQuantity(3)
	p, _ := NewPrice(0.1)
	items := []ShoppingListItem{{Quantity: q, Price: &p}}

	assert.Equal(t, 0.3, EstimateTotal(items))
	assert.Equal(t, 0.0, EstimateTotal(nil))
}
