package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

// SharingService manages who can see and edit a list
type SharingService struct {
	access   listAccess
	lists    repository.ShoppingListRepository
	sharing  repository.SharingRepository
	users    repository.UserRepository
	notifier InvitationNotifier
	log      *zap.Logger
}

// NewSharingService wires the sharing service. A nil notifier disables invitation emails.
func NewSharingService(
	lists repository.ShoppingListRepository,
	sharing repository.SharingRepository,
	users repository.UserRepository,
	authProvider auth.Provider,
	notifier InvitationNotifier,
	log *zap.Logger,
) *SharingService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SharingService{
		access:   listAccess{auth: authProvider, lists: lists},
		lists:    lists,
		sharing:  sharing,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

// GetCollaborators lists the collaborators of a list the actor can view
func (s *SharingService) GetCollaborators(ctx context.Context, listID string) ([]models.ShoppingListCollaborator, error) {
	_, list, err := s.access.list(ctx, listID, canView)
	if err != nil {
		return nil, err
	}

	collaborators, err := s.sharing.GetCollaborators(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collaborators: %w", err)
	}
	return collaborators, nil
}

// ShareList invites a user by email. Inviting an existing collaborator changes their role.
func (s *SharingService) ShareList(ctx context.Context, listID string, req models.ShareListRequest) (models.ShoppingListCollaborator, error) {
	userID, list, err := s.access.list(ctx, listID, canShare)
	if err != nil {
		return models.ShoppingListCollaborator{}, err
	}
	if !list.CanBeShared() {
		return models.ShoppingListCollaborator{}, errs.BusinessRule("List must have a name before it can be shared")
	}

	role, err := grantableRole(req.Role)
	if err != nil {
		return models.ShoppingListCollaborator{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return models.ShoppingListCollaborator{}, errs.Validation("Email is required")
	}
	invitee, err := s.lists.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.ShoppingListCollaborator{}, errs.NotFound("user not found")
		}
		return models.ShoppingListCollaborator{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if invitee.ID == list.OwnerUserID {
		return models.ShoppingListCollaborator{}, errs.BusinessRule("The owner already has access to this list")
	}

	_, alreadyShared := list.Collaborator(invitee.ID)
	collaborator, err := s.sharing.AddCollaborator(ctx, list.ID, invitee.ID, role)
	if err != nil {
		return models.ShoppingListCollaborator{}, fmt.Errorf("failed to share list: %w", err)
	}

	s.log.Info("shopping list shared",
		zap.String("list_id", list.ID),
		zap.String("user_id", invitee.ID),
		zap.String("role", string(role)),
		zap.Bool("role_changed", alreadyShared),
	)

	if !alreadyShared {
		s.notify(ctx, list, userID, invitee, role)
	}
	return collaborator, nil
}

// UpdateCollaboratorRole changes the role of an existing collaborator. Owner only.
func (s *SharingService) UpdateCollaboratorRole(ctx context.Context, listID, collaboratorUserID, rawRole string) (models.ShoppingListCollaborator, error) {
	_, list, err := s.access.list(ctx, listID, canShare)
	if err != nil {
		return models.ShoppingListCollaborator{}, err
	}

	role, err := grantableRole(rawRole)
	if err != nil {
		return models.ShoppingListCollaborator{}, err
	}
	if collaboratorUserID == list.OwnerUserID {
		return models.ShoppingListCollaborator{}, errs.BusinessRule("The owner's role cannot be changed")
	}
	if _, ok := list.Collaborator(collaboratorUserID); !ok {
		return models.ShoppingListCollaborator{}, errs.NotFound("collaborator not found")
	}

	collaborator, err := s.sharing.UpdateCollaboratorRole(ctx, list.ID, collaboratorUserID, role)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return models.ShoppingListCollaborator{}, errs.NotFound("collaborator not found")
		}
		return models.ShoppingListCollaborator{}, fmt.Errorf("failed to update collaborator role: %w", err)
	}
	return collaborator, nil
}

// RemoveCollaborator revokes access. The owner may remove anyone but themselves;
// a collaborator may only remove themselves, which is the same as leaving.
func (s *SharingService) RemoveCollaborator(ctx context.Context, listID, collaboratorUserID string) error {
	userID, err := s.access.actor(ctx)
	if err != nil {
		return err
	}
	if userID == collaboratorUserID {
		return s.LeaveSharedList(ctx, listID)
	}

	_, list, err := s.access.list(ctx, listID, canShare)
	if err != nil {
		return err
	}
	if collaboratorUserID == list.OwnerUserID {
		return errs.BusinessRule("The owner cannot be removed from the list")
	}
	if _, ok := list.Collaborator(collaboratorUserID); !ok {
		return errs.NotFound("collaborator not found")
	}

	return s.remove(ctx, list.ID, collaboratorUserID)
}

// LeaveSharedList removes the actor from a list shared with them
func (s *SharingService) LeaveSharedList(ctx context.Context, listID string) error {
	userID, list, err := s.access.list(ctx, listID, canView)
	if err != nil {
		return err
	}
	if list.UserRole(userID) == models.RoleOwner {
		return errs.BusinessRule("The owner cannot leave their own list")
	}

	return s.remove(ctx, list.ID, userID)
}

func (s *SharingService) remove(ctx context.Context, listID, userID string) error {
	if err := s.sharing.RemoveCollaborator(ctx, listID, userID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("collaborator not found")
		}
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}
	s.log.Info("collaborator removed", zap.String("list_id", listID), zap.String("user_id", userID))
	return nil
}

// notify sends the invitation; failures never undo the share
func (s *SharingService) notify(ctx context.Context, list *models.ShoppingList, inviterID string, invitee *models.User, role models.Role) {
	inviterName := "Someone"
	if inviter, err := s.users.FindByID(ctx, inviterID); err == nil {
		inviterName = inviter.DisplayName()
	}

	inv := ListInvitation{
		ListID:       list.ID,
		ListName:     list.Name,
		InviterName:  inviterName,
		InviteeEmail: invitee.Email,
		Role:         string(role),
	}
	if err := s.notifier.NotifyInvitation(ctx, inv); err != nil {
		s.log.Warn("failed to send list invitation",
			zap.String("list_id", list.ID),
			zap.String("invitee", invitee.Email),
			zap.Error(err),
		)
	}
}

// grantableRole parses a role that may be granted to a collaborator
func grantableRole(raw string) (models.Role, error) {
	role, err := models.ParseRole(raw)
	if err != nil {
		return models.RoleNone, err
	}
	if role == models.RoleOwner {
		return models.RoleNone, errs.Validation("Role must be EDITOR or VIEWER")
	}
	return role, nil
}
