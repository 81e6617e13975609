// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/daily-poll/auth"
	"github.com/danielhkuo/daily-poll/models"
	"github.com/danielhkuo/daily-poll/rolecache"
	"github.com/danielhkuo/daily-poll/store"
)

var (
	ErrNotAuthorized      = errors.New("email not authorized")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrWrongPassword      = errors.New("wrong password for registered email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminExists        = errors.New("admin already exists")
	ErrEmailTaken         = errors.New("email already has an account")
)

// Store is the slice of the relational store that registration needs.
type Store interface {
	GetDirectoryEntry(ctx context.Context, email string) (models.AuthorizedIdentity, error)
	ClaimRegistration(ctx context.Context, email string) (bool, error)
	ReleaseRegistration(ctx context.Context, email string) error

	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)
	CreateAccount(ctx context.Context, account models.Account, profile *models.UserProfile, role string) error
	HasRole(ctx context.Context, userID, role string) (bool, error)
	AdminExists(ctx context.Context) (bool, error)
}

// Session is the result of a successful sign-in.
type Session struct {
	Token   string
	UserID  string
	Email   string
	IsAdmin bool
}

// Redirect is where the client should land after sign-in.
func (s Session) Redirect() string {
	if s.IsAdmin {
		return models.RedirectAdmin
	}
	return models.RedirectDashboard
}

type Service struct {
	store  Store
	tokens *auth.TokenIssuer
	roles  rolecache.Cache
}

func NewService(st Store, tokens *auth.TokenIssuer, roles rolecache.Cache) *Service {
	return &Service{store: st, tokens: tokens, roles: roles}
}

// Register provisions an account for a pre-approved, not yet registered
// email. The directory's stored phone becomes the password, whatever phone
// the caller supplied.
func (s *Service) Register(ctx context.Context, email, _ string) error {
	email = auth.NormalizeEmail(email)

	entry, err := s.store.GetDirectoryEntry(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotAuthorized
	}
	if err != nil {
		return fmt.Errorf("lookup directory: %w", err)
	}
	if entry.IsRegistered {
		return ErrAlreadyRegistered
	}

	claimed, err := s.store.ClaimRegistration(ctx, email)
	if err != nil {
		return fmt.Errorf("claim registration: %w", err)
	}
	if !claimed {
		return ErrAlreadyRegistered
	}

	if err := s.provision(ctx, entry); err != nil {
		if relErr := s.store.ReleaseRegistration(ctx, email); relErr != nil {
			slog.Error("failed to release registration claim", "email", email, "error", relErr)
		}
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyRegistered
		}
		return err
	}

	slog.Info("user registered", "email", email)
	return nil
}

func (s *Service) provision(ctx context.Context, entry models.AuthorizedIdentity) error {
	hash, err := auth.HashPassword(entry.Phone)
	if err != nil {
		return err
	}

	account := models.Account{
		ID:            auth.GenerateID(),
		Email:         entry.Email,
		PasswordHash:  hash,
		EmailVerified: true,
	}

	gender := entry.Gender
	phone := entry.Phone
	profile := &models.UserProfile{
		Email:     entry.Email,
		Phone:     &phone,
		FullName:  entry.FullName,
		Gender:    &gender,
		Hostel:    entry.Hostel,
		IsVisible: entry.IsVisible,
	}

	if err := s.store.CreateAccount(ctx, account, profile, models.RoleUser); err != nil {
		return fmt.Errorf("provision account: %w", err)
	}
	return nil
}

// SignIn checks credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = auth.NormalizeEmail(email)

	account, err := s.store.GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup account: %w", err)
	}
	if !auth.VerifyPassword(password, account.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	isAdmin, err := s.IsAdmin(ctx, account.ID)
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	return Session{Token: token, UserID: account.ID, Email: account.Email, IsAdmin: isAdmin}, nil
}

// Login signs in, registering on first use. A registered email with the
// wrong password yields ErrWrongPassword.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	session, err := s.SignIn(ctx, email, password)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrInvalidCredentials) {
		return Session{}, err
	}

	if err := s.Register(ctx, email, password); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return Session{}, ErrWrongPassword
		}
		return Session{}, err
	}

	session, err = s.SignIn(ctx, email, password)
	if errors.Is(err, ErrInvalidCredentials) {
		return Session{}, ErrWrongPassword
	}
	return session, err
}

// SetupAdmin creates the one and only admin account.
func (s *Service) SetupAdmin(ctx context.Context, email, password string) error {
	email = auth.NormalizeEmail(email)

	exists, err := s.store.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return ErrAdminExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	account := models.Account{
		ID:            auth.GenerateID(),
		Email:         email,
		PasswordHash:  hash,
		EmailVerified: true,
	}
	if err := s.store.CreateAccount(ctx, account, nil, models.RoleAdmin); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			if exists, _ := s.store.AdminExists(ctx); exists {
				return ErrAdminExists
			}
			return ErrEmailTaken
		}
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("admin account created", "email", email)
	return nil
}

// IsAdmin reports the admin capability of a user, consulting the role cache first.
func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if s.roles != nil {
		isAdmin, ok, err := s.roles.Get(ctx, userID)
		if err != nil {
			slog.Warn("role cache read failed", "user_id", userID, "error", err)
		} else if ok {
			return isAdmin, nil
		}
	}

	isAdmin, err := s.store.HasRole(ctx, userID, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}

	if s.roles != nil {
		if err := s.roles.Set(ctx, userID, isAdmin); err != nil {
			slog.Warn("role cache write failed", "user_id", userID, "error", err)
		}
	}
	return isAdmin, nil
}
