package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type LoginActivityRepository interface {
	Create(ctx context.Context, data *entity.LoginActivity) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]entity.LoginActivity, error)
}

type loginActivityRepository struct{}

func NewLoginActivityRepository() *loginActivityRepository {
	return &loginActivityRepository{}
}

func (r *loginActivityRepository) Create(ctx context.Context, data *entity.LoginActivity) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *loginActivityRepository) GetByUserID(
	ctx context.Context, userID string, limit int,
) ([]entity.LoginActivity, error) {
	var result []entity.LoginActivity
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
