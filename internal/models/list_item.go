package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

// ShoppingListItem is a line entry of a shopping list.
//
// Items are values: the With* transitions return a modified copy and never
// touch the receiver, so a failed validation leaves the original intact.
type ShoppingListItem struct {
	ID             string       `json:"id"`
	ShoppingListID string       `json:"shopping_list_id"`
	ProductID      *string      `json:"product_id,omitempty"`
	CustomName     *string      `json:"custom_name,omitempty"`
	ProductName    *string      `json:"product_name,omitempty"` // Joined from the catalog for display
	Quantity       ItemQuantity `json:"quantity"`
	Unit           Unit         `json:"unit"`
	IsCompleted    bool         `json:"is_completed"`
	Price          *Price       `json:"price,omitempty"`
	Barcode        *string      `json:"barcode,omitempty"`
	Notes          *string      `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewItemParams carries the raw inputs of a new list item
type NewItemParams struct {
	ID             string
	ShoppingListID string
	ProductID      *string
	CustomName     *string
	Quantity       float64
	Unit           string
	Price          *float64
	Barcode        *string
	Notes          *string
	CreatedAt      time.Time
}

// NewShoppingListItem validates every field through its value object and builds the item.
// An item must be identifiable: it needs a custom name or a product link.
func NewShoppingListItem(p NewItemParams) (ShoppingListItem, error) {
	qty, err := NewItemQuantity(p.Quantity)
	if err != nil {
		return ShoppingListItem{}, err
	}

	unitRaw := p.Unit
	if strings.TrimSpace(unitRaw) == "" {
		unitRaw = string(UnitUnit)
	}
	unit, err := NewUnit(unitRaw)
	if err != nil {
		return ShoppingListItem{}, err
	}

	price, err := NewOptionalPrice(p.Price)
	if err != nil {
		return ShoppingListItem{}, err
	}

	name := normalizeOptional(p.CustomName)
	if name != nil {
		if _, err := ValidateName("Item name", *name); err != nil {
			return ShoppingListItem{}, err
		}
	}
	productID := normalizeOptional(p.ProductID)
	if name == nil && productID == nil {
		return ShoppingListItem{}, errs.Validation("Item needs a name or a product")
	}

	return ShoppingListItem{
		ID:             p.ID,
		ShoppingListID: p.ShoppingListID,
		ProductID:      productID,
		CustomName:     name,
		Quantity:       qty,
		Unit:           unit,
		Price:          price,
		Barcode:        normalizeOptional(p.Barcode),
		Notes:          normalizeOptional(p.Notes),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.CreatedAt,
	}, nil
}

// DisplayName returns the custom name, falling back to the linked product name
func (i ShoppingListItem) DisplayName() string {
	if i.CustomName != nil {
		return *i.CustomName
	}
	if i.ProductName != nil {
		return *i.ProductName
	}
	return ""
}

// WithName returns a copy carrying the new custom name
func (i ShoppingListItem) WithName(name string) (ShoppingListItem, error) {
	n, err := ValidateName("Item name", name)
	if err != nil {
		return i, err
	}
	i.CustomName = &n
	return i, nil
}

// WithQuantity returns a copy carrying the new quantity
func (i ShoppingListItem) WithQuantity(q float64) (ShoppingListItem, error) {
	qty, err := NewItemQuantity(q)
	if err != nil {
		return i, err
	}
	i.Quantity = qty
	return i, nil
}

// WithUnit returns a copy carrying the new unit
func (i ShoppingListItem) WithUnit(raw string) (ShoppingListItem, error) {
	u, err := NewUnit(raw)
	if err != nil {
		return i, err
	}
	i.Unit = u
	return i, nil
}

// WithPrice returns a copy carrying the new price. nil clears it.
func (i ShoppingListItem) WithPrice(p *float64) (ShoppingListItem, error) {
	price, err := NewOptionalPrice(p)
	if err != nil {
		return i, err
	}
	i.Price = price
	return i, nil
}

// WithCompletion returns a copy with the completion flag set
func (i ShoppingListItem) WithCompletion(completed bool) ShoppingListItem {
	i.IsCompleted = completed
	return i
}

// WithToggledCompletion flips the completion flag through ItemStatus
func (i ShoppingListItem) WithToggledCompletion() ShoppingListItem {
	return i.WithCompletion(NewItemStatus(i.IsCompleted).Toggle().IsCompleted())
}

// WithReset returns a copy that is no longer completed
func (i ShoppingListItem) WithReset() ShoppingListItem {
	return i.WithCompletion(false)
}

// WithBarcode returns a copy carrying the barcode. nil or blank clears it.
func (i ShoppingListItem) WithBarcode(barcode *string) ShoppingListItem {
	i.Barcode = normalizeOptional(barcode)
	return i
}

// WithNotes returns a copy carrying the notes. nil or blank clears them.
func (i ShoppingListItem) WithNotes(notes *string) ShoppingListItem {
	i.Notes = normalizeOptional(notes)
	return i
}

// WithProduct links the item to a catalog product
func (i ShoppingListItem) WithProduct(productID, productName string) (ShoppingListItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return i, errs.Validation("Product id is required")
	}
	i.ProductID = &productID
	if productName != "" {
		i.ProductName = &productName
	}
	return i, nil
}

// ItemPatch is a partial update; nil fields are left unchanged
type ItemPatch struct {
	CustomName  *string  `json:"custom_name,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ClearPrice  bool     `json:"clear_price,omitempty"`
	IsCompleted *bool    `json:"is_completed,omitempty"`
	Barcode     *string  `json:"barcode,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p.CustomName == nil && p.Quantity == nil && p.Unit == nil && p.Price == nil &&
		!p.ClearPrice && p.IsCompleted == nil && p.Barcode == nil && p.Notes == nil
}

// WithUpdates applies patch all-or-nothing. Every present field is validated
// before the copy is built; on error the receiver is returned unchanged.
func (i ShoppingListItem) WithUpdates(patch ItemPatch, listID string) (ShoppingListItem, error) {
	if listID != i.ShoppingListID {
		return i, errs.BusinessRule("Item does not belong to this list")
	}

	next := i
	var err error
	if patch.CustomName != nil {
		if next, err = next.WithName(*patch.CustomName); err != nil {
			return i, err
		}
	}
	if patch.Quantity != nil {
		if next, err = next.WithQuantity(*patch.Quantity); err != nil {
			return i, err
		}
	}
	if patch.Unit != nil {
		if next, err = next.WithUnit(*patch.Unit); err != nil {
			return i, err
		}
	}
	if patch.ClearPrice {
		next.Price = nil
	} else if patch.Price != nil {
		if next, err = next.WithPrice(patch.Price); err != nil {
			return i, err
		}
	}
	if patch.IsCompleted != nil {
		next = next.WithCompletion(*patch.IsCompleted)
	}
	if patch.Barcode != nil {
		next = next.WithBarcode(patch.Barcode)
	}
	if patch.Notes != nil {
		next = next.WithNotes(patch.Notes)
	}
	return next, nil
}

// EstimateTotal sums price * quantity over the priced items, rounded to cents
func EstimateTotal(items []ShoppingListItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		if it.Price == nil {
			continue
		}
		line := decimal.NewFromFloat(it.Price.Value()).Mul(decimal.NewFromFloat(it.Quantity.Value()))
		total = total.Add(line)
	}
	return total.Round(2).InexactFloat64()
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Request types

// AddItemRequest is the request body for adding an item to a list
type AddItemRequest struct {
	CustomName *string  `json:"custom_name,omitempty"`
	ProductID  *string  `json:"product_id,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Barcode    *string  `json:"barcode,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// QuickAddRequest carries free text typed into the quick-add box
type QuickAddRequest struct {
	Text string `json:"text"`
}

// ImportItemsRequest carries a pasted multi-line list
type ImportItemsRequest struct {
	Content string `json:"content"`
}

// LinkProductRequest links an item to an existing catalog product
type LinkProductRequest struct {
	ProductID string `json:"product_id"`
}
