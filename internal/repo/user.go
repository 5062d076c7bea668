package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *GormRepo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UsersInGroup(ctx context.Context, group string) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.DB.WithContext(ctx).
		Joins("JOIN memberships ON memberships.user_id = users.id").
		Where("memberships.group_name = ?", group).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) GroupsOf(ctx context.Context, userID uint) ([]string, error) {
	var groups []string
	err := r.DB.WithContext(ctx).
		Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Pluck("group_name", &groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember is a no-op when the membership already exists.
func (r *GormRepo) AddMember(ctx context.Context, userID uint, group string) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Membership{UserID: userID, Group: group}).Error
}

func (r *GormRepo) RemoveMember(ctx context.Context, userID uint, group string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND group_name = ?", userID, group).
		Delete(&models.Membership{}).Error
}
