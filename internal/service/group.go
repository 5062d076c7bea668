package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
	"github.com/Skotchmaster/little_lemon/internal/role"
)

type GroupService struct {
	Repo *repo.GormRepo
}

func checkGroup(group string) error {
	if group != role.Manager.Group() && group != role.DeliveryCrew.Group() {
		return fmt.Errorf("%w: unknown group %q", ErrNotFound, group)
	}
	return nil
}

func (s *GroupService) Members(ctx context.Context, group string) ([]models.User, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	return s.Repo.UsersInGroup(ctx, group)
}

// Add is idempotent: adding an existing member succeeds without a second row.
func (s *GroupService) Add(ctx context.Context, group, username string) (*models.User, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username", "this field is required")
	}

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}

	if err := s.Repo.AddMember(ctx, user.ID, group); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("group_member_added", "svc", "groups", "group", group, "member_id", user.ID)
	return user, nil
}

// Remove succeeds when the user exists but is not a member.
func (s *GroupService) Remove(ctx context.Context, group string, userID uint) error {
	if err := checkGroup(group); err != nil {
		return err
	}
	if _, err := s.Repo.UserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}

	if err := s.Repo.RemoveMember(ctx, userID, group); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("group_member_removed", "svc", "groups", "group", group, "member_id", userID)
	return nil
}
