package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository/memory"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ListInvitation
	err  error
}

func (n *recordingNotifier) NotifyInvitation(_ context.Context, inv ListInvitation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, inv)
	return n.err
}

type failingSearch struct{}

func (failingSearch) Search(context.Context, string, int) ([]models.ProductSearchResult, error) {
	return nil, errors.New("catalog offline")
}

type fixture struct {
	store    *memory.Store
	lists    *ShoppingListService
	items    *ShoppingListItemService
	sharing  *SharingService
	smart    *SmartConversionService
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	provider := auth.NewContextProvider()
	log := zap.NewNop()
	notifier := &recordingNotifier{}
	matcher := NewProductMatcher()

	return &fixture{
		store:    store,
		lists:    NewShoppingListService(store.Lists(), store.Items(), provider, log),
		items:    NewShoppingListItemService(store.Lists(), store.Items(), store.Catalog(), provider, NewSmartInputParser(), matcher, 5, log),
		sharing:  NewSharingService(store.Lists(), store.Sharing(), store.Users(), provider, notifier, log),
		smart:    NewSmartConversionService(store.Lists(), store.Items(), store.Catalog(), store.Catalog(), provider, matcher, 5, log),
		notifier: notifier,
	}
}

// signUp registers a user and returns its id and a context acting as it
func (f *fixture) signUp(t *testing.T, email, name string) (string, context.Context) {
	t.Helper()

	user := &models.User{Email: email, Name: &name}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user.ID, auth.WithUserID(context.Background(), user.ID)
}

func (f *fixture) newList(t *testing.T, ctx context.Context, name string) *models.ShoppingList {
	t.Helper()

	list, err := f.lists.CreateList(ctx, models.CreateListRequest{Name: name})
	require.NoError(t, err)
	return list
}

func (f *fixture) addItem(t *testing.T, ctx context.Context, listID, name string) models.ShoppingListItem {
	t.Helper()

	item, err := f.items.AddItem(ctx, listID, models.AddItemRequest{CustomName: &name})
	require.NoError(t, err)
	return item
}
