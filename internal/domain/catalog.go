package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID          uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// MaxPrice is the largest value a decimal(10,2) price column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

type Product struct {
	ID            uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	CategoryID    uint64          `json:"category_id" gorm:"not null;index"`
	Category      *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (p *Product) InStock(quantity int) bool {
	return p.StockQuantity >= quantity
}

// ProductFilter holds the optional, conjunctive catalog filters. Nil fields
// are not applied.
type ProductFilter struct {
	CategoryID *uint64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     string
	Page       int
	Limit      int
}

func (f ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{CurrentPage: page, LastPage: last, PerPage: perPage, Total: total}
}

type ProductPage struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}
