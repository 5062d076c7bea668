package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/auth"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/role"
)

const (
	maxUsernameLen = 150
	minPasswordLen = 8
)

type AccountService struct {
	Repo   *repo.GormRepo
	Tokens *auth.Issuer
	Roles  *role.Resolver
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

func (s *AccountService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	v := &ValidationError{}
	switch {
	case username == "":
		v.Add("username", "this field is required")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		v.Add("username", fmt.Sprintf("ensure this field has no more than %d characters", maxUsernameLen))
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		v.Add("password", fmt.Sprintf("ensure this field has at least %d characters", minPasswordLen))
	}
	if email != "" && !strings.Contains(email, "@") {
		v.Add("email", "enter a valid email address")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.Repo.UserByUsername(ctx, username); err == nil {
		return nil, invalid("username", "a user with that username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("username", "a user with that username already exists")
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("user_registered", "svc", "accounts", "user_id", user.ID)
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	v := &ValidationError{}
	if strings.TrimSpace(username) == "" {
		v.Add("username", "this field is required")
	}
	if password == "" {
		v.Add("password", "this field is required")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	user, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("non_field_errors", "unable to log in with provided credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, invalid("non_field_errors", "unable to log in with provided credentials")
	}

	token, exp, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp}, nil
}

// Me returns the caller and the role their memberships resolve to right now.
func (s *AccountService) Me(ctx context.Context, userID uint) (*models.User, role.Role, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, "", err
	}
	r, err := s.Roles.RoleOf(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return user, r, nil
}

// EnsureManager creates the bootstrap account if it does not exist yet and
// places it in the Manager group. The password of an existing account is
// left untouched.
func (s *AccountService) EnsureManager(ctx context.Context, username, email, password string) error {
	l := logging.FromContext(ctx).With("svc", "accounts")

	user, err := s.Repo.UserByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.Register(ctx, username, email, password)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		l.Info("admin_created", "user_id", user.ID)
	case err != nil:
		return err
	}

	if err := s.Repo.AddMember(ctx, user.ID, role.Manager.Group()); err != nil {
		return fmt.Errorf("grant manager: %w", err)
	}
	return nil
}
