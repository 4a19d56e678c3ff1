package repository

import (
	"context"
	"errors"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"

	"gorm.io/gorm"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// Create reports repo.ErrDuplicate when the email or username index already holds the value.
func (r *UserGormRepository) Create(ctx context.Context, user *model.User) error {
	return duplicateOr(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserGormRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "LOWER(username) = LOWER(?)", username)
}

func (r *UserGormRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile writes only the fields that are set and returns the stored user.
func (r *UserGormRepository) UpdateProfile(ctx context.Context, id int64, p repo.UserProfile) (*model.User, error) {
	updates := map[string]interface{}{}
	setIf := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setIf("first_name", p.FirstName)
	setIf("last_name", p.LastName)
	setIf("address", p.Address)
	setIf("city", p.City)
	setIf("state", p.State)
	setIf("zip_code", p.ZipCode)
	setIf("country", p.Country)
	setIf("phone", p.Phone)

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, repo.ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

func (r *UserGormRepository) IncrementTokenVersion(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *UserGormRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return []model.User{}, err
	}
	return users, nil
}

func (r *UserGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *UserGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}
