package model

// OrderItem freezes the product name and unit price at purchase time.
type OrderItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64   `gorm:"not null;index" json:"orderId"`
	ProductID   int64   `gorm:"not null;index" json:"productId"`
	ProductName string  `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
	Price       Money   `gorm:"type:decimal(12,2);not null" json:"price"`
	Size        *string `gorm:"type:varchar(20)" json:"size"`
	Color       *string `gorm:"type:varchar(50)" json:"color"`
}
