package repo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

func (r *GormRepo) CartLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("menu_item_id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// MergeCartLine adds quantity of item to the user's cart. An existing line
// keeps its frozen unit price and only grows; a new line snapshots the
// item's current price. Lines may not exceed limit units.
func (r *GormRepo) MergeCartLine(ctx context.Context, userID uint, item *models.MenuItem, quantity, limit int) (*models.CartLine, error) {
	var line models.CartLine

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := lockCartLine(tx, userID, item.ID, &line)

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > limit {
				return ErrQuantityLimit
			}
			line = models.CartLine{
				UserID:     userID,
				MenuItemID: item.ID,
				Quantity:   quantity,
				UnitPrice:  item.Price,
				Price:      item.Price.Mul(decimal.NewFromInt(int64(quantity))),
			}
			// a concurrent first add may win the insert; merge into its row then
			err = tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(&line).Error
			})
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			line = models.CartLine{}
			if err := lockCartLine(tx, userID, item.ID, &line); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		merged := line.Quantity + quantity
		if merged > limit {
			return ErrQuantityLimit
		}
		line.Quantity = merged
		line.Price = line.UnitPrice.Mul(decimal.NewFromInt(int64(merged)))

		return tx.Model(&models.CartLine{}).
			Where("user_id = ? AND menu_item_id = ?", userID, item.ID).
			Updates(map[string]any{"quantity": line.Quantity, "price": line.Price}).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func lockCartLine(tx *gorm.DB, userID, menuItemID uint, line *models.CartLine) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		First(line).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
