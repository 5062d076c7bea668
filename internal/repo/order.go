package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

// OrderScope restricts which orders a query can see. A zero scope sees all.
type OrderScope struct {
	CustomerID uint
	CrewID     uint
}

func (s OrderScope) apply(q *gorm.DB) *gorm.DB {
	if s.CustomerID != 0 {
		q = q.Where("orders.user_id = ?", s.CustomerID)
	}
	if s.CrewID != 0 {
		q = q.Where("orders.delivery_crew_id = ?", s.CrewID)
	}
	return q
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_lines.id ASC")
	})
}

// PlaceOrder converts every cart line of userID into one order. The order
// row, its lines, the total and the cart removal commit together or not at all.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, at time.Time) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			Order("menu_item_id ASC").
			Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{
			UserID: userID,
			Total:  decimal.Zero,
			Date:   at,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, cl := range lines {
			ol := models.OrderLine{
				OrderID:    order.ID,
				MenuItemID: cl.MenuItemID,
				Quantity:   cl.Quantity,
				UnitPrice:  cl.UnitPrice,
				Price:      cl.Price,
			}
			if err := tx.Create(&ol).Error; err != nil {
				return err
			}
			total = total.Add(cl.Price)
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("total", total).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}

		return withDetails(tx).First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, scope OrderScope, offset, limit int) ([]models.Order, error) {
	q := scope.apply(withDetails(r.DB.WithContext(ctx)).Model(&models.Order{})).Order("orders.id DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}

	orders := make([]models.Order, 0)
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns gorm.ErrRecordNotFound both for unknown ids and for
// orders outside scope.
func (r *GormRepo) GetOrder(ctx context.Context, id uint, scope OrderScope) (*models.Order, error) {
	var order models.Order
	q := scope.apply(withDetails(r.DB.WithContext(ctx)).Where("orders.id = ?", id))
	if err := q.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrder(ctx context.Context, id uint, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
