package repository

import (
	"context"
	"fmt"

	"github.com/zeinnaushad/elevate/internal/domain/model"

	"gorm.io/gorm"
)

// SeedAdmin is the account created on first boot. PasswordHash is already hashed.
type SeedAdmin struct {
	Username     string
	Email        string
	PasswordHash string
}

// Seed inserts the admin account and the demo catalog. Each part runs only
// when its table is empty, so restarting against a persistent database is a no-op.
func Seed(ctx context.Context, db *gorm.DB, admin SeedAdmin) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := NewUserGormRepository(tx)
		n, err := users.Count(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if n == 0 {
			if err := users.Create(ctx, &model.User{
				Username:  admin.Username,
				Email:     admin.Email,
				Password:  admin.PasswordHash,
				Role:      model.RoleAdmin,
				FirstName: "Admin",
				LastName:  "User",
			}); err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
		}

		products := NewProductGormRepository(tx)
		n, err = products.Count(ctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, p := range demoCatalog() {
			if _, err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.SKU, err)
			}
		}
		return nil
	})
}

func demoCatalog() []model.Product {
	discount := model.MustMoney("109.99")
	return []model.Product{
		{
			Name:        "Chiffon Flare Sleeve Dress",
			Description: "This elegant dress features a flattering silhouette with delicate chiffon flare sleeves. Perfect for special occasions.",
			Price:       model.MustMoney("89.99"),
			Category:    model.CategoryWomen,
			ImageURLs:   model.StringArray{"https://images.unsplash.com/photo-1580651315530-69c8e0026377?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=800&q=80"},
			Sizes:       model.StringArray{"XS", "S", "M", "L"},
			Colors:      model.StringArray{"Black", "White", "Beige"},
			Featured:    true,
			InStock:     true,
			SKU:         "WD-F2023-001",
			Material:    "100% Polyester",
			Tags:        model.StringArray{"dress", "elegant", "chiffon"},
		},
		{
			Name:        "Retro Washed Printed T-Shirt",
			Description: "Vintage-inspired printed t-shirt with a comfortable fit and distressed details for an authentic look.",
			Price:       model.MustMoney("45.99"),
			Category:    model.CategoryMen,
			ImageURLs:   model.StringArray{"https://images.unsplash.com/photo-1525507119028-ed4c629a60a3?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=800&q=80"},
			Sizes:       model.StringArray{"S", "M", "L", "XL"},
			Colors:      model.StringArray{"Gray", "Black", "White"},
			Featured:    true,
			InStock:     true,
			SKU:         "MT-F2023-002",
			Material:    "100% Cotton",
			Tags:        model.StringArray{"t-shirt", "vintage", "casual"},
		},
		{
			Name:        "Off Shoulder Long Sleeve Top",
			Description: "Stylish off-shoulder top with long sleeves, perfect for casual outings or date nights.",
			Price:       model.MustMoney("59.99"),
			Category:    model.CategoryWomen,
			ImageURLs:   model.StringArray{"https://images.unsplash.com/photo-1509631179647-0177331693ae?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=800&q=80"},
			Sizes:       model.StringArray{"XS", "S", "M", "L"},
			Colors:      model.StringArray{"Brown", "Black", "White"},
			Featured:    true,
			InStock:     true,
			SKU:         "WT-F2023-003",
			Material:    "95% Cotton, 5% Elastane",
			Tags:        model.StringArray{"top", "casual", "trendy"},
		},
		{
			Name:        "Layered Silver Necklace",
			Description: "Elegant layered silver necklace that adds sophistication to any outfit.",
			Price:       model.MustMoney("35.99"),
			Category:    model.CategoryAccessories,
			ImageURLs:   model.StringArray{"https://images.unsplash.com/photo-1611085583191-a3b181a88401?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=800&q=80"},
			Sizes:       model.StringArray{},
			Colors:      model.StringArray{"Silver"},
			Featured:    true,
			InStock:     true,
			SKU:         "AC-F2023-004",
			Material:    "Sterling Silver",
			Tags:        model.StringArray{"necklace", "silver", "jewelry"},
		},
		{
			Name:          "Frilled Mini White Dress",
			Description:   "This elegant frilled mini dress features a flattering silhouette with delicate ruffles. Made from premium lightweight fabric for comfort and style. Perfect for special occasions or evening events.",
			Price:         model.MustMoney("129.99"),
			DiscountPrice: &discount,
			Category:      model.CategoryWomen,
			ImageURLs: model.StringArray{
				"https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=1000&q=80",
				"https://images.unsplash.com/photo-1581044777550-4cfa60707c03?ixlib=rb-4.0.3&auto=format&fit=crop&w=200&h=200&q=80",
				"https://images.unsplash.com/photo-1564485377539-4af72d1f6a2f?ixlib=rb-4.0.3&auto=format&fit=crop&w=200&h=200&q=80",
				"https://images.unsplash.com/photo-1554141220-83411835a60b?ixlib=rb-4.0.3&auto=format&fit=crop&w=200&h=200&q=80",
			},
			Sizes:    model.StringArray{"XS", "S", "M", "L", "XL"},
			Colors:   model.StringArray{"White", "Black", "Beige"},
			Featured: true,
			InStock:  true,
			SKU:      "WD-F2023-005",
			Material: "95% Cotton, 5% Elastane",
			Tags:     model.StringArray{"dress", "mini", "elegant"},
		},
	}
}
