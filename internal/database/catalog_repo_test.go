package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

func TestCatalogRepo_Search_AttachesLatestPrices(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)

	mock.ExpectQuery(`WHERE p.name ILIKE ANY\(\$1\)`).
		WithArgs([]string{"%green%", "%100\\%%"}, "Green 100%", 10).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "name", "category"}).
			AddRow("p1", "Green Apples", strPtr("Pink Lady"), strPtr("fruit")).
			AddRow("p2", "Green Tea", nil, nil))
	mock.ExpectQuery(`SELECT DISTINCT ON \(pr.product_id, pr.store_id\)`).
		WithArgs([]string{"p1", "p2"}).
		WillReturnRows(pgxmock.NewRows([]string{"product_id", "id", "name", "amount", "recorded_at"}).
			AddRow("p1", "s1", "Carrefour", 2.9, ts).
			AddRow("p1", "s2", "Lidl", 2.5, ts))

	results, err := r.Search(context.Background(), "Green 100%", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	apples := results[0]
	require.Len(t, apples.Prices, 2)
	require.Equal(t, 2.7, *apples.AveragePrice)
	require.Equal(t, 2.5, *apples.BestPrice)
	require.Equal(t, "Lidl", *apples.BestStore)

	require.Empty(t, results[1].Prices)
	require.Nil(t, results[1].AveragePrice)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_Search_BlankQuery(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()

	results, err := NewCatalogRepo(db).Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	require.Empty(t, results)
	require.NoError(t, mock.ExpectationsWereMet())
}

func createParams() models.CreateProductParams {
	return models.CreateProductParams{
		ProductID: "p9",
		PriceID:   "pr9",
		Name:      "Oat Milk",
		BrandName: "Oatly",
		StoreName: "Lidl",
		Price:     1.99,
		Unit:      models.Unit("l"),
		Quantity:  1,
		CreatedBy: "u1",
	}
}

func TestCatalogRepo_CreateProductWithPrice(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO brands`).
		WithArgs(pgxmock.AnyArg(), "Oatly").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("b1"))
	mock.ExpectQuery(`INSERT INTO stores`).
		WithArgs(pgxmock.AnyArg(), "Lidl", "").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs("p9", "Oat Milk", "b1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(ts))
	mock.ExpectExec(`INSERT INTO prices`).
		WithArgs("pr9", "p9", "s1", 1.99, "l", 1.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	product, err := r.CreateProductWithPrice(context.Background(), createParams())
	require.NoError(t, err)
	require.Equal(t, "p9", product.ID)
	require.Equal(t, "Oatly", *product.Brand)
	require.Equal(t, "u1", *product.CreatedBy)
	require.Equal(t, ts, product.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_CreateProductWithPrice_RollsBack(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO brands`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("b1"))
	mock.ExpectQuery(`INSERT INTO stores`).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("s1"))
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(ts))
	mock.ExpectExec(`INSERT INTO prices`).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := r.CreateProductWithPrice(context.Background(), createParams())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_RecordPrice(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO stores`).
		WithArgs(pgxmock.AnyArg(), "Carrefour", "Lyon").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("s2"))
	mock.ExpectExec(`INSERT INTO prices`).
		WithArgs("pr10", "p9", "s2", 2.19, "l", 1.0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := r.RecordPrice(context.Background(), models.PriceEntry{
		ID: "pr10", ProductID: "p9", Amount: 2.19, Unit: models.Unit("l"), Quantity: 1,
	}, "Carrefour", strPtr("Lyon"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_FindProductByID_MalformedID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)

	mock.ExpectQuery(`FROM products p`).
		WithArgs("prod-x").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := r.FindProductByID(context.Background(), "prod-x")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
