package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, data *entity.ActivityLog) error
	GetList(ctx context.Context, offset, limit int) ([]entity.ActivityLog, error)
	Count(ctx context.Context) (int64, error)
}

type activityLogRepository struct{}

func NewActivityLogRepository() *activityLogRepository {
	return &activityLogRepository{}
}

func (r *activityLogRepository) Create(ctx context.Context, data *entity.ActivityLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *activityLogRepository) GetList(ctx context.Context, offset, limit int) ([]entity.ActivityLog, error) {
	var result []entity.ActivityLog
	err := xcontext.DB(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.ActivityLog{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
