package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AdminRepository interface {
	Upsert(ctx context.Context, data *entity.Admin) error
	GetByID(ctx context.Context, id string) (*entity.Admin, error)
	GetByUsername(ctx context.Context, username string) (*entity.Admin, error)
	UpdatePassword(ctx context.Context, id, password string) error
}

type adminRepository struct{}

func NewAdminRepository() *adminRepository {
	return &adminRepository{}
}

// Upsert creates the admin. An existing admin with the same username is kept
// untouched.
func (r *adminRepository) Upsert(ctx context.Context, data *entity.Admin) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).
		Create(data).Error
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*entity.Admin, error) {
	var result entity.Admin
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	var result entity.Admin
	if err := xcontext.DB(ctx).Take(&result, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id, password string) error {
	return xcontext.DB(ctx).
		Model(&entity.Admin{}).
		Where("id=?", id).
		Update("password", password).Error
}
