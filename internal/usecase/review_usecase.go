package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

type ReviewUsecase struct {
	reviewRepo  repo.ReviewRepository
	productRepo repo.ProductRepository
}

func NewReviewUsecase(reviewRepo repo.ReviewRepository, productRepo repo.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviewRepo: reviewRepo, productRepo: productRepo}
}

type CreateReviewInput struct {
	Rating  int
	Comment *string
}

func (u *ReviewUsecase) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	if err := u.ensureProduct(ctx, productID); err != nil {
		return []model.Review{}, err
	}

	reviews, err := u.reviewRepo.ListByProductID(ctx, productID)
	if err != nil {
		return []model.Review{}, errDB()
	}
	return reviews, nil
}

// CreateReview has no uniqueness rule: a user may review the same product again.
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, productID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, errUnauthorized()
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewValidationError(map[string]string{"rating": "must be between 1 and 5"})
	}
	if err := u.ensureProduct(ctx, productID); err != nil {
		return model.Review{}, err
	}

	var comment *string
	if in.Comment != nil {
		if c := strings.TrimSpace(*in.Comment); c != "" {
			comment = &c
		}
	}

	rv, err := u.reviewRepo.Create(ctx, model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    in.Rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.Review{}, errDB()
	}
	return rv, nil
}

func (u *ReviewUsecase) ensureProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		return errDB()
	}
	return nil
}
