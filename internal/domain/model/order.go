package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a historical record. Only Status changes after creation.
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"userId"`
	Subtotal        Money           `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingCost    Money           `gorm:"type:decimal(12,2);not null" json:"shippingCost"`
	Total           Money           `gorm:"type:decimal(12,2);not null" json:"total"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippingAddress ShippingAddress `gorm:"type:text;not null" json:"shippingAddress"`
	PaymentDetails  PaymentDetails  `gorm:"type:text;not null" json:"paymentDetails"`
	CreatedAt       time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
