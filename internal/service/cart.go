package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
)

const MaxLineQuantity = 1000

type CartService struct {
	Repo *repo.GormRepo
}

// Lines returns an empty slice for an empty cart.
func (s *CartService) Lines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return s.Repo.CartLines(ctx, userID)
}

func (s *CartService) Add(ctx context.Context, userID, menuItemID uint, quantity int) (*models.CartLine, error) {
	v := &ValidationError{}
	if menuItemID == 0 {
		v.Add("menuitem", "this field is required")
	}
	switch {
	case quantity < 1:
		v.Add("quantity", "ensure this value is greater than or equal to 1")
	case quantity > MaxLineQuantity:
		v.Add("quantity", fmt.Sprintf("ensure this value is less than or equal to %d", MaxLineQuantity))
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	item, err := s.Repo.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, menuItemID)
		}
		return nil, err
	}

	line, err := s.Repo.MergeCartLine(ctx, userID, item, quantity, MaxLineQuantity)
	if err != nil {
		if errors.Is(err, repo.ErrQuantityLimit) {
			return nil, invalid("quantity", fmt.Sprintf("a cart line may hold at most %d units", MaxLineQuantity))
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("cart_line_added", "svc", "cart", "menuitem", menuItemID, "quantity", line.Quantity)
	return line, nil
}

// Clear is a no-op success on an empty cart.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}
