// Package memory provides mutex-guarded in-memory repositories backing the
// service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

// Store holds every table. The repository views share its lock.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	lists    map[string]models.ShoppingList
	items    map[string]itemRow
	collabs  map[string]models.ShoppingListCollaborator // keyed by listID + "/" + userID
	users    map[string]models.User
	products map[string]models.ProductSearchResult
	order    []string // product ids in insertion order
	now      func() time.Time
}

type itemRow struct {
	seq  int64
	item models.ShoppingListItem
}

// New returns an empty store
func New() *Store {
	return &Store{
		lists:    make(map[string]models.ShoppingList),
		items:    make(map[string]itemRow),
		collabs:  make(map[string]models.ShoppingListCollaborator),
		users:    make(map[string]models.User),
		products: make(map[string]models.ProductSearchResult),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func collabKey(listID, userID string) string { return listID + "/" + userID }

// Lists returns the list repository view
func (s *Store) Lists() *ListRepo { return &ListRepo{s: s} }

// Items returns the item repository view
func (s *Store) Items() *ItemRepo { return &ItemRepo{s: s} }

// Sharing returns the collaborator repository view
func (s *Store) Sharing() *SharingRepo { return &SharingRepo{s: s} }

// Catalog returns the catalog repository and search view
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s: s} }

// Users returns the user repository view
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

var (
	_ repository.ShoppingListRepository     = (*ListRepo)(nil)
	_ repository.ShoppingListItemRepository = (*ItemRepo)(nil)
	_ repository.SharingRepository          = (*SharingRepo)(nil)
	_ repository.CatalogSearchProvider      = (*CatalogRepo)(nil)
	_ repository.CatalogRepository          = (*CatalogRepo)(nil)
	_ repository.UserRepository             = (*UserRepo)(nil)
)

// ListRepo implements repository.ShoppingListRepository
type ListRepo struct{ s *Store }

func (r *ListRepo) FindByID(ctx context.Context, id string) (*models.ShoppingList, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.lists[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	full := r.s.assemble(l)
	return &full, nil
}

func (r *ListRepo) FindByUser(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.ShoppingList
	for _, l := range r.s.lists {
		_, shared := r.s.collabs[collabKey(l.ID, userID)]
		if l.OwnerUserID == userID || shared {
			out = append(out, r.s.assemble(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ListRepo) Create(ctx context.Context, list *models.ShoppingList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	list.CreatedAt, list.UpdatedAt = now, now
	row := *list
	row.Items, row.Collaborators = nil, nil
	r.s.lists[list.ID] = row
	return nil
}

func (r *ListRepo) Update(ctx context.Context, list *models.ShoppingList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.lists[list.ID]
	if !ok {
		return errs.ErrNotFound
	}
	row.Name = list.Name
	row.Description = list.Description
	row.IsPublic = list.IsPublic
	row.UpdatedAt = r.s.now()
	r.s.lists[list.ID] = row
	list.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ListRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lists[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.lists, id)
	for k, row := range r.s.items {
		if row.item.ShoppingListID == id {
			delete(r.s.items, k)
		}
	}
	for k, c := range r.s.collabs {
		if c.ListID == id {
			delete(r.s.collabs, k)
		}
	}
	return nil
}

func (r *ListRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.s.Users().FindByEmail(ctx, email)
}

// assemble attaches items and collaborators; callers hold the lock
func (s *Store) assemble(l models.ShoppingList) models.ShoppingList {
	var rows []itemRow
	for _, row := range s.items {
		if row.item.ShoppingListID == l.ID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	l.Items = make([]models.ShoppingListItem, 0, len(rows))
	for _, row := range rows {
		l.Items = append(l.Items, s.withProductName(row.item))
	}

	l.Collaborators = s.collaborators(l.ID)
	return l
}

func (s *Store) collaborators(listID string) []models.ShoppingListCollaborator {
	out := make([]models.ShoppingListCollaborator, 0)
	for _, c := range s.collabs {
		if c.ListID == listID {
			out = append(out, s.withProfile(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) withProfile(c models.ShoppingListCollaborator) models.ShoppingListCollaborator {
	if u, ok := s.users[c.UserID]; ok {
		c.UserName = u.Name
		c.UserEmail = u.Email
		c.UserAvatar = u.AvatarURL
	}
	return c
}

func (s *Store) withProductName(item models.ShoppingListItem) models.ShoppingListItem {
	if item.ProductID != nil {
		if p, ok := s.products[*item.ProductID]; ok {
			name := p.Name
			item.ProductName = &name
		}
	}
	return item
}

// ItemRepo implements repository.ShoppingListItemRepository
type ItemRepo struct{ s *Store }

func (r *ItemRepo) AddItem(ctx context.Context, listID string, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lists[listID]; !ok {
		return models.ShoppingListItem{}, errs.ErrNotFound
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := r.s.now()
	item.ShoppingListID = listID
	item.CreatedAt, item.UpdatedAt = now, now
	r.s.seq++
	r.s.items[item.ID] = itemRow{seq: r.s.seq, item: item}
	return r.s.withProductName(item), nil
}

func (r *ItemRepo) UpdateItem(ctx context.Context, item models.ShoppingListItem) (models.ShoppingListItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[item.ID]
	if !ok {
		return models.ShoppingListItem{}, errs.ErrNotFound
	}
	item.ShoppingListID = row.item.ShoppingListID
	item.CreatedAt = row.item.CreatedAt
	item.UpdatedAt = r.s.now()
	row.item = item
	r.s.items[item.ID] = row
	return r.s.withProductName(item), nil
}

func (r *ItemRepo) RemoveItem(ctx context.Context, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.items[itemID]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.items, itemID)
	return nil
}

func (r *ItemRepo) FindItemByID(ctx context.Context, itemID string) (models.ShoppingListItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.items[itemID]
	if !ok {
		return models.ShoppingListItem{}, errs.ErrNotFound
	}
	return r.s.withProductName(row.item), nil
}

// SharingRepo implements repository.SharingRepository
type SharingRepo struct{ s *Store }

func (r *SharingRepo) GetCollaborators(ctx context.Context, listID string) ([]models.ShoppingListCollaborator, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.collaborators(listID), nil
}

func (r *SharingRepo) AddCollaborator(ctx context.Context, listID, userID string, role models.Role) (models.ShoppingListCollaborator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.lists[listID]; !ok {
		return models.ShoppingListCollaborator{}, errs.ErrNotFound
	}
	now := r.s.now()
	key := collabKey(listID, userID)
	c, ok := r.s.collabs[key]
	if !ok {
		c = models.ShoppingListCollaborator{
			ID:        uuid.NewString(),
			ListID:    listID,
			UserID:    userID,
			CreatedAt: now,
		}
	}
	c.Role = role
	c.UpdatedAt = now
	r.s.collabs[key] = c
	return r.s.withProfile(c), nil
}

func (r *SharingRepo) UpdateCollaboratorRole(ctx context.Context, listID, userID string, role models.Role) (models.ShoppingListCollaborator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := collabKey(listID, userID)
	c, ok := r.s.collabs[key]
	if !ok {
		return models.ShoppingListCollaborator{}, errs.ErrNotFound
	}
	c.Role = role
	c.UpdatedAt = r.s.now()
	r.s.collabs[key] = c
	return r.s.withProfile(c), nil
}

func (r *SharingRepo) RemoveCollaborator(ctx context.Context, listID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := collabKey(listID, userID)
	if _, ok := r.s.collabs[key]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.collabs, key)
	return nil
}

// CatalogRepo implements repository.CatalogRepository and repository.CatalogSearchProvider
type CatalogRepo struct{ s *Store }

// AddProduct seeds a search result, computing its aggregates from Prices
func (r *CatalogRepo) AddProduct(p models.ProductSearchResult) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Aggregate()
	if _, ok := r.s.products[p.ID]; !ok {
		r.s.order = append(r.s.order, p.ID)
	}
	r.s.products[p.ID] = p
}

func (r *CatalogRepo) Search(ctx context.Context, query string, limit int) ([]models.ProductSearchResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	var out []models.ProductSearchResult
	for _, id := range r.s.order {
		p := r.s.products[id]
		name := strings.ToLower(p.Name)
		for _, term := range terms {
			if strings.Contains(name, term) {
				out = append(out, p)
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *CatalogRepo) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &models.Product{ID: p.ID, Name: p.Name, Brand: p.Brand, Category: p.Category}, nil
}

func (r *CatalogRepo) CreateProductWithPrice(ctx context.Context, params models.CreateProductParams) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	brand := params.BrandName
	createdBy := params.CreatedBy
	product := &models.Product{
		ID:        params.ProductID,
		Name:      params.Name,
		Brand:     &brand,
		Category:  params.Category,
		Barcode:   params.Barcode,
		CreatedBy: &createdBy,
		CreatedAt: now,
	}

	result := models.ProductSearchResult{
		ID:       product.ID,
		Name:     product.Name,
		Brand:    product.Brand,
		Category: product.Category,
		Prices: []models.StorePrice{{
			StoreID:    strings.ToLower(params.StoreName),
			StoreName:  params.StoreName,
			Price:      params.Price,
			RecordedAt: now,
		}},
	}
	result.Aggregate()
	r.s.products[product.ID] = result
	r.s.order = append(r.s.order, product.ID)
	return product, nil
}

// UserRepo implements repository.UserRepository
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if u.Email == email {
			return errs.AlreadyExists("email already registered")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.s.now()
	user.Email = email
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	now := r.s.now()
	u.LastLoginAt = &now
	r.s.users[id] = u
	return nil
}
