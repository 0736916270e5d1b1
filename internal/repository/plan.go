package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(ctx context.Context, data *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetAll(ctx context.Context) ([]entity.Plan, error)
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	DeleteByID(ctx context.Context, id string) error
}

type planRepository struct{}

func NewPlanRepository() *planRepository {
	return &planRepository{}
}

func (r *planRepository) Create(ctx context.Context, data *entity.Plan) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	var result entity.Plan
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *planRepository) GetAll(ctx context.Context) ([]entity.Plan, error) {
	var result []entity.Plan
	if err := xcontext.DB(ctx).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *planRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.Plan{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *planRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Plan{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
