package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

var _ repository.ShoppingListItemRepository = (*ItemRepo)(nil)

// itemColumns reads an item aliased i with its product joined as p
const itemColumns = `i.id, i.shopping_list_id, i.product_id, i.custom_name, i.quantity, i.unit,
	i.is_completed, i.price, i.barcode, i.notes, i.created_at, i.updated_at, p.name`

// ItemRepo stores list items
type ItemRepo struct{ db *DB }

func NewItemRepo(db *DB) *ItemRepo { return &ItemRepo{db: db} }

// AddItem inserts the item; a missing list yields errs.ErrNotFound
func (r *ItemRepo) AddItem(ctx context.Context, listID string, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	saved, err := scanItem(r.db.Pool.QueryRow(ctx, `
		WITH i AS (
			INSERT INTO shopping_list_items
				(id, shopping_list_id, product_id, custom_name, quantity, unit, is_completed, price, barcode, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING *
		)
		SELECT `+itemColumns+`
		FROM i LEFT JOIN products p ON p.id = i.product_id
	`, itemArgs(item.ID, listID, item)...))
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ShoppingListItem{}, errs.ErrNotFound
		}
		return models.ShoppingListItem{}, notFound(err)
	}
	return saved, nil
}

// UpdateItem overwrites every mutable column of the item
func (r *ItemRepo) UpdateItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	return scanItem(r.db.Pool.QueryRow(ctx, `
		WITH i AS (
			UPDATE shopping_list_items SET
				product_id = $3, custom_name = $4, quantity = $5, unit = $6,
				is_completed = $7, price = $8, barcode = $9, notes = $10, updated_at = NOW()
			WHERE id = $1 AND shopping_list_id = $2
			RETURNING *
		)
		SELECT `+itemColumns+`
		FROM i LEFT JOIN products p ON p.id = i.product_id
	`, itemArgs(item.ID, item.ShoppingListID, item)...))
}

func (r *ItemRepo) RemoveItem(ctx context.Context, itemID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM shopping_list_items WHERE id = $1`, itemID)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) FindItemByID(ctx context.Context, itemID string) (models.ShoppingListItem, error) {
	return scanItem(r.db.Pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_list_items i LEFT JOIN products p ON p.id = i.product_id
		WHERE i.id = $1
	`, itemID))
}

// findItemsByList returns the list's items in creation order
func findItemsByList(ctx context.Context, pool PgxPool, listID string) ([]models.ShoppingListItem, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM shopping_list_items i LEFT JOIN products p ON p.id = i.product_id
		WHERE i.shopping_list_id = $1
		ORDER BY i.created_at ASC, i.id ASC
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ShoppingListItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func itemArgs(id, listID string, item models.ShoppingListItem) []any {
	var price *float64
	if item.Price != nil {
		v := item.Price.Value()
		price = &v
	}
	return []any{
		id, listID, item.ProductID, item.CustomName, item.Quantity.Value(), string(item.Unit),
		item.IsCompleted, price, item.Barcode, item.Notes,
	}
}

// scanItem rebuilds the item through its constructor so stored rows obey the same rules as new ones
func scanItem(row pgx.Row) (models.ShoppingListItem, error) {
	var (
		p           models.NewItemParams
		completed   bool
		updatedAt   time.Time
		productName *string
	)
	err := row.Scan(&p.ID, &p.ShoppingListID, &p.ProductID, &p.CustomName, &p.Quantity, &p.Unit,
		&completed, &p.Price, &p.Barcode, &p.Notes, &p.CreatedAt, &updatedAt, &productName)
	if err != nil {
		return models.ShoppingListItem{}, notFound(err)
	}

	item, err := models.NewShoppingListItem(p)
	if err != nil {
		return models.ShoppingListItem{}, err
	}
	item.IsCompleted = completed
	item.ProductName = productName
	item.UpdatedAt = updatedAt
	return item, nil
}
