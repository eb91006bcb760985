package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

var _ repository.SharingRepository = (*SharingRepo)(nil)

// collaboratorColumns reads a grant aliased c with its user joined as u
const collaboratorColumns = `c.id, c.list_id, c.user_id, c.role, u.name, u.email, u.avatar_url, c.created_at, c.updated_at`

// SharingRepo stores collaborator grants
type SharingRepo struct{ db *DB }

func NewSharingRepo(db *DB) *SharingRepo { return &SharingRepo{db: db} }

func (r *SharingRepo) GetCollaborators(ctx context.Context, listID string) ([]models.ShoppingListCollaborator, error) {
	return findCollaborators(ctx, r.db.Pool, listID)
}

// AddCollaborator grants access; an existing grant gets the new role
func (r *SharingRepo) AddCollaborator(ctx context.Context, listID, userID string, role models.Role) (models.ShoppingListCollaborator, error) {
	c, err := scanCollaborator(r.db.Pool.QueryRow(ctx, `
		WITH c AS (
			INSERT INTO shopping_list_collaborators (id, list_id, user_id, role)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (list_id, user_id) DO UPDATE
			SET role = EXCLUDED.role, updated_at = NOW()
			RETURNING *
		)
		SELECT `+collaboratorColumns+`
		FROM c JOIN users u ON u.id = c.user_id
	`, uuid.NewString(), listID, userID, string(role)))
	if err != nil {
		if isForeignKeyViolation(err) {
			return models.ShoppingListCollaborator{}, errs.ErrNotFound
		}
		return models.ShoppingListCollaborator{}, notFound(err)
	}
	return c, nil
}

func (r *SharingRepo) UpdateCollaboratorRole(ctx context.Context, listID, userID string, role models.Role) (models.ShoppingListCollaborator, error) {
	return scanCollaborator(r.db.Pool.QueryRow(ctx, `
		WITH c AS (
			UPDATE shopping_list_collaborators
			SET role = $3, updated_at = NOW()
			WHERE list_id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT `+collaboratorColumns+`
		FROM c JOIN users u ON u.id = c.user_id
	`, listID, userID, string(role)))
}

func (r *SharingRepo) RemoveCollaborator(ctx context.Context, listID, userID string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM shopping_list_collaborators WHERE list_id = $1 AND user_id = $2`,
		listID, userID)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// findCollaborators returns the grants of a list in the order they were made
func findCollaborators(ctx context.Context, pool PgxPool, listID string) ([]models.ShoppingListCollaborator, error) {
	rows, err := pool.Query(ctx, `
		SELECT `+collaboratorColumns+`
		FROM shopping_list_collaborators c
		JOIN users u ON u.id = c.user_id
		WHERE c.list_id = $1
		ORDER BY c.created_at ASC
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collaborators := make([]models.ShoppingListCollaborator, 0)
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, err
		}
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

func scanCollaborator(row pgx.Row) (models.ShoppingListCollaborator, error) {
	var (
		c    models.ShoppingListCollaborator
		role string
	)
	err := row.Scan(&c.ID, &c.ListID, &c.UserID, &role, &c.UserName, &c.UserEmail, &c.UserAvatar, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.ShoppingListCollaborator{}, notFound(err)
	}
	if c.Role, err = models.ParseRole(role); err != nil {
		return models.ShoppingListCollaborator{}, err
	}
	return c, nil
}
