package model

import "time"

// MaxCartQuantity caps a single cart row and a single order line.
const MaxCartQuantity int64 = 999

// CartItem is unique per (user, product). Size and color are fixed at first add.
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:ux_cart_user_product" json:"userId"`
	ProductID int64     `gorm:"not null;uniqueIndex:ux_cart_user_product;index" json:"productId"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Size      *string   `gorm:"type:varchar(20)" json:"size"`
	Color     *string   `gorm:"type:varchar(50)" json:"color"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
