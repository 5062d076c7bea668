package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type GroupMemberRequest struct {
	Username string `json:"username"`
}

type CategoryRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// MenuItemRequest serves POST, PUT and PATCH; absent fields stay nil.
type MenuItemRequest struct {
	Title    *string          `json:"title"`
	Price    *decimal.Decimal `json:"price"`
	Featured *bool            `json:"featured"`
	Category *uint            `json:"category"`
}

type CartAddRequest struct {
	MenuItem uint `json:"menuitem"`
	Quantity int  `json:"quantity"`
}

type OrderUpdateRequest struct {
	DeliveryCrew OptionalID `json:"delivery_crew"`
	Status       *bool      `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AuthToken string    `json:"auth_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type MeResponse struct {
	UserResponse
	Role string `json:"role"`
}

type MenuItemResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Featured bool   `json:"featured"`
	Category uint   `json:"category"`
}

type CartLineResponse struct {
	User      uint   `json:"user"`
	MenuItem  uint   `json:"menuitem"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Price     string `json:"price"`
}

type OrderLineResponse struct {
	ID        uint   `json:"id"`
	MenuItem  uint   `json:"menuitem"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Price     string `json:"price"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	User         UserResponse        `json:"user"`
	DeliveryCrew *uint               `json:"delivery_crew"`
	Status       bool                `json:"status"`
	Total        string              `json:"total"`
	Date         string              `json:"date"`
	Lines        []OrderLineResponse `json:"order_item"`
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func NewUser(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func NewUsers(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUser(u))
	}
	return out
}

func NewMenuItem(it models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       it.ID,
		Title:    it.Title,
		Price:    money(it.Price),
		Featured: it.Featured,
		Category: it.CategoryID,
	}
}

func NewMenuItems(items []models.MenuItem) []MenuItemResponse {
	out := make([]MenuItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewMenuItem(it))
	}
	return out
}

func NewCartLine(l models.CartLine) CartLineResponse {
	return CartLineResponse{
		User:      l.UserID,
		MenuItem:  l.MenuItemID,
		Quantity:  l.Quantity,
		UnitPrice: money(l.UnitPrice),
		Price:     money(l.Price),
	}
}

func NewCartLines(lines []models.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, NewCartLine(l))
	}
	return out
}

func NewOrder(o models.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:        l.ID,
			MenuItem:  l.MenuItemID,
			Quantity:  l.Quantity,
			UnitPrice: money(l.UnitPrice),
			Price:     money(l.Price),
		})
	}
	return OrderResponse{
		ID:           o.ID,
		User:         NewUser(o.User),
		DeliveryCrew: o.DeliveryCrewID,
		Status:       o.Status,
		Total:        money(o.Total),
		Date:         o.Date.Format(time.DateOnly),
		Lines:        lines,
	}
}

func NewOrders(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrder(o))
	}
	return out
}
