package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/notify"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/pkg/jwt"
	"ai-mart-inventory/pkg/validator"

	"github.com/nanorand/nanorand"
	"go.uber.org/zap"
)

const (
	resetTokenTTL = time.Hour
	resetTokenLen = 40
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	SetPassword(ctx context.Context, email, password string) error
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=6"`
	StoreName string `json:"store_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	GoogleID string `json:"google_id"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	Store *model.Store       `json:"store,omitempty"`
}

type authService struct {
	repo        *repository.Repository
	tokens      *jwt.Manager
	mailer      notify.Mailer
	frontendURL string
	log         *zap.Logger
	now         func() time.Time
}

func NewAuthService(repo *repository.Repository, tokens *jwt.Manager, mailer notify.Mailer, frontendURL string, log *zap.Logger) AuthService {
	return &authService{
		repo:        repo,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.Named("auth"),
		now:         time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := s.repo.Users.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	storeName := req.StoreName
	if storeName == "" {
		storeName = req.Name + "'s store"
	}
	user := &model.User{Name: req.Name, Email: req.Email, Phone: req.Phone, Role: model.RoleOwner}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	store, err := s.createOwner(ctx, user, storeName)
	if err != nil {
		return nil, err
	}
	s.log.Info("owner registered", zap.String("user_id", user.ID.String()), zap.String("store_id", store.ID.String()))
	return s.respond(user, store)
}

// createOwner inserts the user and its first store in one transaction.
func (s *authService) createOwner(ctx context.Context, user *model.User, storeName string) (*model.Store, error) {
	store := &model.Store{Name: storeName, Currency: model.DefaultCurrency}
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		store.OwnerID = user.ID
		if err := tx.Stores.Create(ctx, store); err != nil {
			return err
		}
		user.StoreID = &store.ID
		return tx.Users.AssignStore(ctx, user.ID, store.ID)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	user, err := s.repo.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.respond(user, nil)
}

// GoogleLogin finds the account by email, linking the google id, or
// creates a new owner with a default store.
func (s *authService) GoogleLogin(ctx context.Context, req GoogleLoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user, err := s.repo.Users.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		name := req.Name
		if name == "" {
			name = strings.Split(req.Email, "@")[0]
		}
		user = &model.User{Name: name, Email: req.Email, GoogleID: req.GoogleID, Role: model.RoleOwner}
		store, err := s.createOwner(ctx, user, name+"'s store")
		if err != nil {
			return nil, err
		}
		return s.respond(user, store)
	case err != nil:
		return nil, err
	}

	if user.GoogleID == "" && req.GoogleID != "" {
		user.GoogleID = req.GoogleID
		if err := s.repo.Users.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return s.respond(user, nil)
}

// ForgotPassword stores the hash of a fresh token and mails the raw token
// as a reset link.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email required", ErrInvalidInput)
	}
	user, err := s.repo.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(resetTokenTTL)
	if err := s.repo.Users.SetResetToken(ctx, user.ID, hashToken(token), &expires); err != nil {
		return err
	}

	return s.mailer.Send(ctx, notify.Email{
		To:       user.Email,
		Subject:  "Password Reset",
		Template: notify.TemplatePasswordReset,
		Data: map[string]any{
			"Name":     user.Name,
			"ResetURL": s.frontendURL + "/reset-password/" + token,
		},
	})
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	user, err := s.repo.Users.FindByResetTokenHash(ctx, hashToken(token), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return s.repo.Users.UpdatePassword(ctx, user.ID, user.Password)
}

// SetPassword overwrites a password without a token. Used by operators.
func (s *authService) SetPassword(ctx context.Context, email, password string) error {
	user, err := s.repo.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return s.repo.Users.UpdatePassword(ctx, user.ID, user.Password)
}

func (s *authService) respond(user *model.User, store *model.Store) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role, user.StoreID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.ToResponse(), Store: store}, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func randomToken() (string, error) {
	return nanorand.Gen(resetTokenLen)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
