package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

type SortKey struct {
	Column string
	Desc   bool
}

// MenuFilter narrows a menu listing. Zero values mean "no restriction";
// IDs is only applied when non-nil so an empty search hit list yields no rows.
type MenuFilter struct {
	Category    string
	MaxPrice    *decimal.Decimal
	TitlePrefix string
	IDs         []uint
	Sort        []SortKey
	Offset      int
	Limit       int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats := make([]models.Category, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.DB.WithContext(ctx).Create(cat).Error
}

func (r *GormRepo) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) ListMenuItems(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	tx := r.DB.WithContext(ctx)
	q := tx.Model(&models.MenuItem{})

	if f.Category != "" {
		sub := tx.Model(&models.Category{}).Select("id").Where("slug = ? OR title = ?", f.Category, f.Category)
		q = q.Where("category_id IN (?)", sub)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.TitlePrefix != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(f.TitlePrefix))+"%")
	}
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []models.MenuItem{}, nil
		}
		q = q.Where("id IN ?", f.IDs)
	}

	for _, k := range f.Sort {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: k.Column}, Desc: k.Desc})
	}
	q = q.Order("id ASC")

	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	items := make([]models.MenuItem, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// TitleTaken reports whether another item already uses title.
func (r *GormRepo) TitleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.MenuItem{}).Where("title = ?", title)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// SaveMenuItem writes every mutable column, including zero values.
func (r *GormRepo) SaveMenuItem(ctx context.Context, item *models.MenuItem) error {
	res := r.DB.WithContext(ctx).
		Model(&models.MenuItem{ID: item.ID}).
		Select("title", "price", "featured", "category_id").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteMenuItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.MenuItem{}, id)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
