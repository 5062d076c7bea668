package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"          json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null"     json:"username"`
	Email        string    `gorm:"size:254;not null;default:''"      json:"email"`
	PasswordHash string    `gorm:"not null"                          json:"-"`
	CreatedAt    time.Time `                                         json:"-"`
}

// Membership places a user in one of the named groups. Customer is the
// absence of any membership and is never stored.
type Membership struct {
	UserID uint   `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Group  string `gorm:"column:group_name;primaryKey;size:64" json:"group"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"      json:"id"`
	Slug  string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Title string `gorm:"size:255;index;not null"       json:"title"`
}

type MenuItem struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"       json:"id"`
	Title      string          `gorm:"size:255;uniqueIndex;not null"  json:"title"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null;index" json:"price"`
	Featured   bool            `gorm:"not null;default:false;index"   json:"featured"`
	CategoryID uint            `gorm:"not null;index"                 json:"category"`
}

// CartLine is keyed by (user, menu item). UnitPrice is copied from the menu
// item when the line is first created and is never refreshed afterwards.
// Derived amounts (line price, order total) are wider than unit prices:
// 1000 units at 9999.99 must still fit.
type CartLine struct {
	UserID     uint            `gorm:"primaryKey;autoIncrement:false" json:"user"`
	MenuItemID uint            `gorm:"primaryKey;autoIncrement:false" json:"menuitem"`
	Quantity   int             `gorm:"not null"                       json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null"     json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"price"`
}

type Order struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"       json:"id"`
	UserID         uint            `gorm:"not null;index"                 json:"user_id"`
	User           User            `gorm:"foreignKey:UserID"              json:"user"`
	DeliveryCrewID *uint           `gorm:"index"                          json:"delivery_crew"`
	Status         bool            `gorm:"not null;default:false;index"   json:"status"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"    json:"total"`
	Date           time.Time       `gorm:"not null;index"                 json:"date"`
	Lines          []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_item"`
}

type OrderLine struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"   json:"id"`
	OrderID    uint            `gorm:"not null;index"             json:"order"`
	MenuItemID uint            `gorm:"not null;index"             json:"menuitem"`
	Quantity   int             `gorm:"not null"                   json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

func All() []any {
	return []any{
		&User{},
		&Membership{},
		&Category{},
		&MenuItem{},
		&CartLine{},
		&Order{},
		&OrderLine{},
	}
}
