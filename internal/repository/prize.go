package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PrizeRepository interface {
	Create(ctx context.Context, data *entity.Prize) error
	GetByID(ctx context.Context, id string) (*entity.Prize, error)
	GetList(ctx context.Context, limit int) ([]entity.Prize, error)
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	DeleteByID(ctx context.Context, id string) error
}

type prizeRepository struct{}

func NewPrizeRepository() *prizeRepository {
	return &prizeRepository{}
}

func (r *prizeRepository) Create(ctx context.Context, data *entity.Prize) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *prizeRepository) GetByID(ctx context.Context, id string) (*entity.Prize, error) {
	var result entity.Prize
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList returns prizes in wheel order. A non-positive limit returns all.
func (r *prizeRepository) GetList(ctx context.Context, limit int) ([]entity.Prize, error) {
	tx := xcontext.DB(ctx).Order("position ASC").Order("created_at ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var result []entity.Prize
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.Prize{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *prizeRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Prize{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
