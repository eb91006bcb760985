package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

var (
	_ repository.CatalogRepository     = (*CatalogRepo)(nil)
	_ repository.CatalogSearchProvider = (*CatalogRepo)(nil)
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CatalogRepo searches and extends the product catalog
type CatalogRepo struct{ db *DB }

func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

// Search returns products whose name contains any word of the query, most similar
// first, each with the latest price per store.
func (r *CatalogRepo) Search(ctx context.Context, query string, limit int) ([]models.ProductSearchResult, error) {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil, nil
	}
	patterns := make([]string, len(words))
	for i, w := range words {
		patterns[i] = "%" + likeEscaper.Replace(w) + "%"
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT p.id, p.name, b.name, p.category
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.name ILIKE ANY($1)
		ORDER BY similarity(p.name, $2) DESC, p.name ASC
		LIMIT $3
	`, patterns, query, limit)
	if err != nil {
		return nil, err
	}

	var (
		results []models.ProductSearchResult
		ids     []string
	)
	for rows.Next() {
		var p models.ProductSearchResult
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category); err != nil {
			rows.Close()
			return nil, err
		}
		p.Prices = []models.StorePrice{}
		results = append(results, p)
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}

	prices, err := r.latestPrices(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Prices = append(results[i].Prices, prices[results[i].ID]...)
		results[i].Aggregate()
	}
	return results, nil
}

// latestPrices returns the most recent price per store, keyed by product
func (r *CatalogRepo) latestPrices(ctx context.Context, productIDs []string) (map[string][]models.StorePrice, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT DISTINCT ON (pr.product_id, pr.store_id)
			pr.product_id, s.id, s.name, pr.amount, pr.recorded_at
		FROM prices pr
		JOIN stores s ON s.id = pr.store_id
		WHERE pr.product_id = ANY($1::uuid[])
		ORDER BY pr.product_id, pr.store_id, pr.recorded_at DESC
	`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[string][]models.StorePrice, len(productIDs))
	for rows.Next() {
		var (
			productID string
			sp        models.StorePrice
		)
		if err := rows.Scan(&productID, &sp.StoreID, &sp.StoreName, &sp.Price, &sp.RecordedAt); err != nil {
			return nil, err
		}
		prices[productID] = append(prices[productID], sp)
	}
	return prices, rows.Err()
}

func (r *CatalogRepo) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	p := &models.Product{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT p.id, p.name, b.name, p.category, p.barcode, p.created_by, p.created_at
		FROM products p
		LEFT JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.Barcode, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// CreateProductWithPrice gets or creates the brand and store, then inserts the
// product and its first price in one transaction.
func (r *CatalogRepo) CreateProductWithPrice(ctx context.Context, params models.CreateProductParams) (*models.Product, error) {
	var createdBy *string
	if params.CreatedBy != "" {
		createdBy = &params.CreatedBy
	}

	brand := params.BrandName
	product := &models.Product{
		ID:        params.ProductID,
		Name:      params.Name,
		Brand:     &brand,
		Category:  params.Category,
		Barcode:   params.Barcode,
		CreatedBy: createdBy,
	}

	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var brandID string
		err := tx.QueryRow(ctx, `
			INSERT INTO brands (id, name) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, uuid.NewString(), params.BrandName).Scan(&brandID)
		if err != nil {
			return err
		}

		storeID, err := upsertStore(ctx, tx, params.StoreName, params.StoreLocation)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO products (id, name, brand_id, category, barcode, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, product.ID, product.Name, brandID, product.Category, product.Barcode, createdBy).Scan(&product.CreatedAt)
		if err != nil {
			return err
		}

		return insertPrice(ctx, tx, models.PriceEntry{
			ID:         params.PriceID,
			ProductID:  product.ID,
			StoreID:    storeID,
			Amount:     params.Price,
			Unit:       params.Unit,
			Quantity:   params.Quantity,
			RecordedBy: createdBy,
		})
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// RecordPrice appends a price entry for an existing product, creating the store when needed
func (r *CatalogRepo) RecordPrice(ctx context.Context, entry models.PriceEntry, storeName string, storeLocation *string) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		storeID, err := upsertStore(ctx, tx, storeName, storeLocation)
		if err != nil {
			return err
		}
		entry.StoreID = storeID
		err = insertPrice(ctx, tx, entry)
		if isForeignKeyViolation(err) {
			return errs.ErrNotFound
		}
		return notFound(err)
	})
}

func upsertStore(ctx context.Context, tx pgx.Tx, name string, location *string) (string, error) {
	loc := ""
	if location != nil {
		loc = *location
	}
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO stores (id, name, location) VALUES ($1, $2, $3)
		ON CONFLICT (name, location) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uuid.NewString(), name, loc).Scan(&id)
	return id, err
}

func insertPrice(ctx context.Context, tx pgx.Tx, p models.PriceEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO prices (id, product_id, store_id, amount, unit, quantity, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.ProductID, p.StoreID, p.Amount, string(p.Unit), p.Quantity, p.RecordedBy)
	return err
}
