package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/config"
	"github.com/Deazl-Comparator/deazl-sub001/internal/database"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
)

// catalogRow is one line of the catalog CSV:
// store,brand,category,product,price[,unit,quantity,location]
type catalogRow struct {
	Line     int
	Store    string
	Brand    string
	Category string
	Product  string
	Price    float64
	Unit     models.Unit
	Quantity float64
	Location string
}

func main() {
	file := flag.String("file", "", "catalog CSV file (reads stdin when empty)")
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	var reader io.Reader = os.Stdin
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			logger.Fatal("failed to open catalog file", zap.Error(err))
		}
		defer f.Close()
		reader = f
	}

	rows, err := readCatalog(reader)
	if err != nil {
		logger.Fatal("failed to read catalog", zap.Error(err))
	}
	logger.Info("catalog parsed", zap.Int("rows", len(rows)))

	if *dryRun {
		for _, r := range rows {
			fmt.Printf("%-20s %-15s %-30s %8.2f %s\n", r.Store, r.Brand, r.Product, r.Price, r.Unit)
		}
		return
	}

	ctx := context.Background()
	if err := database.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	created, prices, err := seed(ctx, database.NewCatalogRepo(db), rows)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("catalog seeded", zap.Int("products", created), zap.Int("prices", prices))
}

// catalogWriter is the part of the catalog repository the seeder needs
type catalogWriter interface {
	CreateProductWithPrice(ctx context.Context, params models.CreateProductParams) (*models.Product, error)
	RecordPrice(ctx context.Context, entry models.PriceEntry, storeName string, storeLocation *string) error
}

// seed creates one product per brand and name and records every row as a price
func seed(ctx context.Context, catalog catalogWriter, rows []catalogRow) (int, int, error) {
	products := make(map[string]string)
	created, prices := 0, 0

	for _, r := range rows {
		var location *string
		if r.Location != "" {
			location = &r.Location
		}

		key := strings.ToLower(r.Brand) + "|" + strings.ToLower(r.Product)
		if productID, ok := products[key]; ok {
			err := catalog.RecordPrice(ctx, models.PriceEntry{
				ID:        uuid.NewString(),
				ProductID: productID,
				Amount:    r.Price,
				Unit:      r.Unit,
				Quantity:  r.Quantity,
			}, r.Store, location)
			if err != nil {
				return created, prices, fmt.Errorf("line %d: %w", r.Line, err)
			}
			prices++
			continue
		}

		var category *string
		if r.Category != "" {
			category = &r.Category
		}
		product, err := catalog.CreateProductWithPrice(ctx, models.CreateProductParams{
			ProductID:     uuid.NewString(),
			PriceID:       uuid.NewString(),
			Name:          r.Product,
			BrandName:     r.Brand,
			StoreName:     r.Store,
			StoreLocation: location,
			Category:      category,
			Price:         r.Price,
			Unit:          r.Unit,
			Quantity:      r.Quantity,
		})
		if err != nil {
			return created, prices, fmt.Errorf("line %d: %w", r.Line, err)
		}
		products[key] = product.ID
		created++
		prices++
	}
	return created, prices, nil
}

// readCatalog parses the CSV. A first row starting with "store" is treated as a header.
func readCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []catalogRow
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "store") {
			continue
		}
		row, err := parseRow(line, record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(line int, record []string) (catalogRow, error) {
	if len(record) < 5 {
		return catalogRow{}, fmt.Errorf("line %d: expected at least 5 fields, got %d", line, len(record))
	}
	field := strings.TrimSpace

	row := catalogRow{
		Line:     line,
		Store:    field(record[0]),
		Brand:    field(record[1]),
		Category: field(record[2]),
		Product:  field(record[3]),
		Unit:     models.UnitUnit,
		Quantity: 1,
	}
	if row.Store == "" || row.Brand == "" || row.Product == "" {
		return catalogRow{}, fmt.Errorf("line %d: store, brand and product are required", line)
	}

	amount, err := parseFloat(field(record[4]))
	if err != nil {
		return catalogRow{}, fmt.Errorf("line %d: invalid price %q", line, record[4])
	}
	price, err := models.NewPrice(amount)
	if err != nil {
		return catalogRow{}, fmt.Errorf("line %d: %w", line, err)
	}
	row.Price = price.Value()

	if len(record) > 5 && field(record[5]) != "" {
		unit, err := models.NewUnit(record[5])
		if err != nil {
			return catalogRow{}, fmt.Errorf("line %d: %w", line, err)
		}
		row.Unit = unit
	}
	if len(record) > 6 && field(record[6]) != "" {
		v, err := parseFloat(field(record[6]))
		if err != nil {
			return catalogRow{}, fmt.Errorf("line %d: invalid quantity %q", line, record[6])
		}
		qty, err := models.NewItemQuantity(v)
		if err != nil {
			return catalogRow{}, fmt.Errorf("line %d: %w", line, err)
		}
		row.Quantity = qty.Value()
	}
	if len(record) > 7 {
		row.Location = field(record[7])
	}
	return row, nil
}

// parseFloat accepts a decimal comma in quoted fields
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}
