package database

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func strPtr(s string) *string { return &s }

var (
	itemCols   = []string{"id", "shopping_list_id", "product_id", "custom_name", "quantity", "unit", "is_completed", "price", "barcode", "notes", "created_at", "updated_at", "name"}
	collabCols = []string{"id", "list_id", "user_id", "role", "name", "email", "avatar_url", "created_at", "updated_at"}
	listCols   = []string{"id", "name", "description", "owner_user_id", "is_public", "created_at", "updated_at"}
	userCols   = []string{"id", "email", "password_hash", "name", "avatar_url", "created_at", "updated_at", "last_login_at"}

	ts = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)
