package model

import "time"

type Category string

const (
	CategoryWomen       Category = "women"
	CategoryMen         Category = "men"
	CategoryAccessories Category = "accessories"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryWomen, CategoryMen, CategoryAccessories:
		return true
	}
	return false
}

type Product struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string      `gorm:"type:varchar(255);not null" json:"name"`
	Description   string      `gorm:"type:text;not null" json:"description"`
	Price         Money       `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPrice *Money      `gorm:"type:decimal(12,2)" json:"discountPrice"`
	Category      Category    `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageURLs     StringArray `gorm:"type:text;not null" json:"imageUrls"`
	Sizes         StringArray `gorm:"type:text" json:"sizes"`
	Colors        StringArray `gorm:"type:text" json:"colors"`
	Featured      bool        `gorm:"not null;default:false;index" json:"featured"`
	InStock       bool        `gorm:"not null" json:"inStock"`
	SKU           string      `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"`
	Material      string      `gorm:"type:varchar(255)" json:"material,omitempty"`
	Tags          StringArray `gorm:"type:text" json:"tags"`
	CreatedAt     time.Time   `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// EffectivePrice is what a buyer pays right now: the discount price when set, else the list price.
func (p Product) EffectivePrice() Money {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
