package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type CheckInRepository interface {
	Create(ctx context.Context, data *entity.CheckIn) error
	Exists(ctx context.Context, userID, day string) (bool, error)
	GetDays(ctx context.Context, userID string) ([]string, error)
}

type checkInRepository struct{}

func NewCheckInRepository() *checkInRepository {
	return &checkInRepository{}
}

func (r *checkInRepository) Create(ctx context.Context, data *entity.CheckIn) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *checkInRepository) Exists(ctx context.Context, userID, day string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.CheckIn{}).
		Where("user_id=? AND day=?", userID, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *checkInRepository) GetDays(ctx context.Context, userID string) ([]string, error) {
	var days []string
	err := xcontext.DB(ctx).
		Model(&entity.CheckIn{}).
		Where("user_id=?", userID).
		Order("day ASC").
		Pluck("day", &days).Error
	if err != nil {
		return nil, err
	}

	return days, nil
}
