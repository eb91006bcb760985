package models

import (
	"strings"
	"time"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

// Role is the access tier a user holds on a shopping list
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"

	// RoleNone is returned when the user has no access to the list
	RoleNone Role = ""
)

// ParseRole validates a role name coming from a request or a database row
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleOwner, RoleEditor, RoleViewer:
		return r, nil
	default:
		return RoleNone, errs.Validation("Role must be one of OWNER, EDITOR, VIEWER")
	}
}

// CanModify reports whether the role may change list content
func (r Role) CanModify() bool { return r == RoleOwner || r == RoleEditor }

// CanView reports whether the role grants any access at all
func (r Role) CanView() bool { return r == RoleOwner || r == RoleEditor || r == RoleViewer }

// ShoppingList is the list aggregate: owner, items, collaborators
type ShoppingList struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Description   *string                    `json:"description,omitempty"`
	OwnerUserID   string                     `json:"owner_user_id"`
	IsPublic      bool                       `json:"is_public"`
	Items         []ShoppingListItem         `json:"items"`
	Collaborators []ShoppingListCollaborator `json:"collaborators"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ShoppingListCollaborator grants a non-owner user access to a list
type ShoppingListCollaborator struct {
	ID         string    `json:"id"`
	ListID     string    `json:"list_id"`
	UserID     string    `json:"user_id"`
	Role       Role      `json:"role"`
	UserName   *string   `json:"user_name,omitempty"`
	UserEmail  string    `json:"user_email,omitempty"`
	UserAvatar *string   `json:"user_avatar,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserRole resolves the role of userID: ownership first, then the collaborator set.
func (l *ShoppingList) UserRole(userID string) Role {
	if userID == "" {
		return RoleNone
	}
	if l.OwnerUserID == userID {
		return RoleOwner
	}
	for _, c := range l.Collaborators {
		if c.UserID == userID {
			return c.Role
		}
	}
	return RoleNone
}

// CanUserModify reports whether userID may add, edit or remove items
func (l *ShoppingList) CanUserModify(userID string) bool {
	return l.UserRole(userID).CanModify()
}

// CanUserView reports whether userID may read the list
func (l *ShoppingList) CanUserView(userID string) bool {
	return l.UserRole(userID).CanView()
}

// CanUserShare reports whether userID may manage collaborators. Only the owner can.
func (l *ShoppingList) CanUserShare(userID string) bool {
	return userID != "" && l.OwnerUserID == userID
}

// CanBeShared reports whether the list is complete enough to be shared
func (l *ShoppingList) CanBeShared() bool {
	return strings.TrimSpace(l.Name) != ""
}

// Collaborator returns the collaborator record of userID, if any
func (l *ShoppingList) Collaborator(userID string) (ShoppingListCollaborator, bool) {
	for _, c := range l.Collaborators {
		if c.UserID == userID {
			return c, true
		}
	}
	return ShoppingListCollaborator{}, false
}

// FindItem returns the item with the given id
func (l *ShoppingList) FindItem(itemID string) (ShoppingListItem, bool) {
	for _, it := range l.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return ShoppingListItem{}, false
}

// Summary builds the compact representation used by list views
func (l *ShoppingList) Summary(userID string) ShoppingListSummary {
	completed := 0
	for _, it := range l.Items {
		if it.IsCompleted {
			completed++
		}
	}
	return ShoppingListSummary{
		ID:             l.ID,
		Name:           l.Name,
		Description:    l.Description,
		OwnerUserID:    l.OwnerUserID,
		IsPublic:       l.IsPublic,
		Role:           l.UserRole(userID),
		ItemCount:      len(l.Items),
		CompletedCount: completed,
		EstimatedTotal: EstimateTotal(l.Items),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ShoppingListSummary is a compact representation for list views
type ShoppingListSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	OwnerUserID    string    `json:"owner_user_id"`
	IsPublic       bool      `json:"is_public"`
	Role           Role      `json:"role"`
	ItemCount      int       `json:"item_count"`
	CompletedCount int       `json:"completed_count"`
	EstimatedTotal float64   `json:"estimated_total"` // Sum of price * quantity over priced items
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Request types

// CreateListRequest is the request body for creating a shopping list
type CreateListRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateListRequest is the request body for updating a shopping list
type UpdateListRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// DuplicateListRequest is the optional request body for duplicating a list
type DuplicateListRequest struct {
	Name *string `json:"name,omitempty"`
}

// ShareListRequest invites a user by email
type ShareListRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateCollaboratorRequest changes a collaborator's role
type UpdateCollaboratorRequest struct {
	Role string `json:"role"`
}
