package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

const minPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthService registers accounts and issues access tokens
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	cost   int
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost, log: log}
}

// Register creates an account and signs the user in
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(email) {
		return nil, errs.Validation("invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return nil, errs.Validation("password must be at least 8 characters")
	}

	var name *string
	if req.Name != nil {
		n, err := models.ValidateName("Name", *req.Name)
		if err != nil {
			return nil, err
		}
		name = &n
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to process password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.AlreadyExists("email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return s.respond(user)
}

// Login checks the credentials and issues a fresh token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, errs.Validation("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthenticated("invalid credentials")
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.Unauthenticated("invalid credentials")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	return s.respond(user)
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	userID, ok := auth.UserIDFromCtx(ctx)
	if !ok {
		return nil, errs.Unauthenticated("must sign in")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
