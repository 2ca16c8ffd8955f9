package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "pending"
)

// MaxOrderTotal is the largest value the decimal(12,2) total column holds.
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

type Order struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint64          `json:"user_id" gorm:"not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Items       []OrderItem     `json:"order_items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// OrderItem keeps the unit price the product had when the order was placed.
type OrderItem struct {
	ID        uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID   uint64          `json:"order_id" gorm:"not null;index"`
	ProductID uint64          `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
