package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/db"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrQuantityLimit = errors.New("quantity limit exceeded")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return db.Ping(ctx, r.DB)
}
