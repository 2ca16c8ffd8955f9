package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const EventOrderCreated = "order.created"

type OrderCreatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	UserID      uint64          `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		ItemCount:   len(o.Items),
		CreatedAt:   o.CreatedAt,
	}
}
