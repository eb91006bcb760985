package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

var _ repository.ShoppingListRepository = (*ListRepo)(nil)

const listColumns = `l.id, l.name, l.description, l.owner_user_id, l.is_public, l.created_at, l.updated_at`

// ListRepo stores shopping lists with their items and collaborators
type ListRepo struct {
	db    *DB
	users *UserRepo
}

func NewListRepo(db *DB) *ListRepo {
	return &ListRepo{db: db, users: NewUserRepo(db)}
}

// FindByID retrieves a shopping list with all its items and collaborators
func (r *ListRepo) FindByID(ctx context.Context, id string) (*models.ShoppingList, error) {
	list, err := scanList(r.db.Pool.QueryRow(ctx, `
		SELECT `+listColumns+`
		FROM shopping_lists l
		WHERE l.id = $1
	`, id))
	if err != nil {
		return nil, notFound(err)
	}

	if err := r.assemble(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByUser returns the lists owned by or shared with the user, newest first
func (r *ListRepo) FindByUser(ctx context.Context, userID string) ([]models.ShoppingList, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+listColumns+`
		FROM shopping_lists l
		WHERE l.owner_user_id = $1
		   OR EXISTS (
				SELECT 1 FROM shopping_list_collaborators c
				WHERE c.list_id = l.id AND c.user_id = $1
		   )
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	var lists []models.ShoppingList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		lists = append(lists, *list)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Items and collaborators are loaded after the cursor is released
	for i := range lists {
		if err := r.assemble(ctx, &lists[i]); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (r *ListRepo) Create(ctx context.Context, list *models.ShoppingList) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO shopping_lists (id, name, description, owner_user_id, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, list.ID, list.Name, list.Description, list.OwnerUserID, list.IsPublic).Scan(&list.CreatedAt, &list.UpdatedAt)
}

// Update persists name, description and visibility
func (r *ListRepo) Update(ctx context.Context, list *models.ShoppingList) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE shopping_lists
		SET name = $2, description = $3, is_public = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, list.ID, list.Name, list.Description, list.IsPublic).Scan(&list.UpdatedAt)
	return notFound(err)
}

// Delete removes the list; items and collaborators cascade
func (r *ListRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM shopping_lists WHERE id = $1`, id)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ListRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.users.FindByEmail(ctx, email)
}

func (r *ListRepo) assemble(ctx context.Context, list *models.ShoppingList) error {
	items, err := findItemsByList(ctx, r.db.Pool, list.ID)
	if err != nil {
		return err
	}
	collaborators, err := findCollaborators(ctx, r.db.Pool, list.ID)
	if err != nil {
		return err
	}
	list.Items = items
	list.Collaborators = collaborators
	return nil
}

func scanList(row pgx.Row) (*models.ShoppingList, error) {
	l := &models.ShoppingList{}
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.OwnerUserID, &l.IsPublic, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}
