package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is unique per user; it is created on first access and never deleted.
type Cart struct {
	ID        uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64     `json:"user_id" gorm:"not null;uniqueIndex"`
	Items     []CartItem `json:"-" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type CartItem struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	CartID    uint64    `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint64    `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Subtotal uses the live product price; it is zero when the product is not
// loaded.
func (i CartItem) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CartView struct {
	Cart  *Cart           `json:"cart"`
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// AllModels lists every persisted type in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}
