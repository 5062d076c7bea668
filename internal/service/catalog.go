package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
)

const maxTitleLen = 255

var maxPrice = decimal.NewFromInt(10000)

// sortable maps public ordering names to columns.
var sortable = map[string]string{
	"id":       "id",
	"title":    "title",
	"price":    "price",
	"featured": "featured",
	"category": "category_id",
}

type MenuIndexer interface {
	Index(ctx context.Context, item models.MenuItem) error
	Delete(ctx context.Context, id uint) error
	PrefixIDs(ctx context.Context, prefix string) ([]uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  MenuIndexer
	Events events.Publisher
}

type MenuQuery struct {
	Category string
	ToPrice  string
	Search   string
	Ordering string
	Offset   int
	Limit    int
}

// MenuItemInput holds the writable fields of a menu item; nil means absent.
type MenuItemInput struct {
	Title    *string
	Price    *decimal.Decimal
	Featured *bool
	Category *uint
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, title, slug string) (*models.Category, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)

	v := &ValidationError{}
	if title == "" {
		v.Add("title", "this field is required")
	} else if len(title) > maxTitleLen {
		v.Add("title", fmt.Sprintf("ensure this field has no more than %d characters", maxTitleLen))
	}
	if slug == "" {
		slug = Slugify(title)
	}
	if title != "" && slug == "" {
		v.Add("slug", "enter a valid slug")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	if _, err := s.Repo.CategoryBySlug(ctx, slug); err == nil {
		return nil, invalid("slug", "category with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cat := &models.Category{Title: title, Slug: slug}
	if err := s.Repo.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("slug", "category with this slug already exists")
		}
		return nil, err
	}
	return cat, nil
}

// Slugify lowercases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

func parseOrdering(raw string) ([]repo.SortKey, error) {
	var keys []repo.SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		col, ok := sortable[strings.TrimPrefix(part, "-")]
		if !ok {
			return nil, invalid("ordering", fmt.Sprintf("unknown ordering field %q", part))
		}
		keys = append(keys, repo.SortKey{Column: col, Desc: desc})
	}
	return keys, nil
}

func (s *CatalogService) ListMenu(ctx context.Context, q MenuQuery) ([]models.MenuItem, error) {
	f := repo.MenuFilter{
		Category: strings.TrimSpace(q.Category),
		Offset:   q.Offset,
		Limit:    q.Limit,
	}

	if raw := strings.TrimSpace(q.ToPrice); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, invalid("to_price", "a valid number is required")
		}
		f.MaxPrice = &p
	}

	sort, err := parseOrdering(q.Ordering)
	if err != nil {
		return nil, err
	}
	f.Sort = sort

	if prefix := strings.TrimSpace(q.Search); prefix != "" {
		f.TitlePrefix = prefix
		if s.Index != nil {
			ids, err := s.Index.PrefixIDs(ctx, prefix)
			if err != nil {
				logging.FromContext(ctx).Warn("menu_search_index_failed", "svc", "catalog", "error", err)
			} else {
				f.IDs = ids
			}
		}
	}

	return s.Repo.ListMenuItems(ctx, f)
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, id)
		}
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	apply(item, in)
	if err := s.validate(ctx, item, required(in, false)); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateMenuItem(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("title", "menu item with this title already exists")
		}
		return nil, err
	}

	s.changed(ctx, events.MenuItemCreated, item)
	return item, nil
}

// ReplaceMenuItem is a full update: every writable field must be supplied.
func (s *CatalogService) ReplaceMenuItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	return s.update(ctx, id, in, required(in, true))
}

func (s *CatalogService) PatchMenuItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	return s.update(ctx, id, in, &ValidationError{})
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: menu item %d", ErrNotFound, id)
		}
		return err
	}

	if s.Index != nil {
		afterCommit(ctx, "menu_index_delete", func(ctx context.Context) error {
			return s.Index.Delete(ctx, id)
		})
	}
	publish(ctx, s.Events, events.MenuItemDeleted, id, map[string]any{"id": id})
	return nil
}

func (s *CatalogService) update(ctx context.Context, id uint, in MenuItemInput, v *ValidationError) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(item, in)
	if err := s.validate(ctx, item, v); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveMenuItem(ctx, item); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, id)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, invalid("title", "menu item with this title already exists")
		}
		return nil, err
	}

	s.changed(ctx, events.MenuItemUpdated, item)
	return item, nil
}

func (s *CatalogService) changed(ctx context.Context, typ string, item *models.MenuItem) {
	if s.Index != nil {
		afterCommit(ctx, "menu_index_put", func(ctx context.Context) error {
			return s.Index.Index(ctx, *item)
		})
	}
	publish(ctx, s.Events, typ, item.ID, map[string]any{
		"id":       item.ID,
		"title":    item.Title,
		"price":    item.Price.StringFixed(2),
		"featured": item.Featured,
		"category": item.CategoryID,
	})
}

func required(in MenuItemInput, featured bool) *ValidationError {
	v := &ValidationError{}
	if in.Title == nil {
		v.Add("title", "this field is required")
	}
	if in.Price == nil {
		v.Add("price", "this field is required")
	}
	if in.Category == nil {
		v.Add("category", "this field is required")
	}
	if featured && in.Featured == nil {
		v.Add("featured", "this field is required")
	}
	return v
}

func apply(item *models.MenuItem, in MenuItemInput) {
	if in.Title != nil {
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Featured != nil {
		item.Featured = *in.Featured
	}
	if in.Category != nil {
		item.CategoryID = *in.Category
	}
}

// validate adds to v and skips fields that already failed.
func (s *CatalogService) validate(ctx context.Context, item *models.MenuItem, v *ValidationError) error {
	if _, failed := v.Fields["title"]; !failed {
		switch {
		case item.Title == "":
			v.Add("title", "this field may not be blank")
		case len(item.Title) > maxTitleLen:
			v.Add("title", fmt.Sprintf("ensure this field has no more than %d characters", maxTitleLen))
		default:
			taken, err := s.Repo.TitleTaken(ctx, item.Title, item.ID)
			if err != nil {
				return err
			}
			if taken {
				v.Add("title", "menu item with this title already exists")
			}
		}
	}

	if _, failed := v.Fields["price"]; !failed {
		switch {
		case !item.Price.IsPositive():
			v.Add("price", "ensure this value is greater than 0")
		case !item.Price.Equal(item.Price.Round(2)):
			v.Add("price", "ensure that there are no more than 2 decimal places")
		case item.Price.GreaterThanOrEqual(maxPrice):
			v.Add("price", "ensure that there are no more than 4 digits before the decimal point")
		}
	}

	if _, failed := v.Fields["category"]; !failed {
		if _, err := s.Repo.CategoryByID(ctx, item.CategoryID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			v.Add("category", fmt.Sprintf("invalid pk %d, object does not exist", item.CategoryID))
		}
	}

	return v.orNil()
}
