package repository

import (
	"context"
	"time"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type OTPRepository interface {
	Create(ctx context.Context, data *entity.OTP) error
	InvalidateUnused(ctx context.Context, phone string, purpose entity.OTPPurpose) error
	GetLatestUnused(ctx context.Context, phone string, purpose entity.OTPPurpose) (*entity.OTP, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteStale(ctx context.Context, expiredBefore time.Time) (int64, error)
}

type otpRepository struct{}

func NewOTPRepository() *otpRepository {
	return &otpRepository{}
}

func (r *otpRepository) Create(ctx context.Context, data *entity.OTP) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *otpRepository) InvalidateUnused(ctx context.Context, phone string, purpose entity.OTPPurpose) error {
	return xcontext.DB(ctx).
		Model(&entity.OTP{}).
		Where("phone=? AND purpose=? AND used_at IS NULL", phone, purpose).
		Update("used_at", time.Now()).Error
}

func (r *otpRepository) GetLatestUnused(
	ctx context.Context, phone string, purpose entity.OTPPurpose,
) (*entity.OTP, error) {
	var result entity.OTP
	err := xcontext.DB(ctx).
		Where("phone=? AND purpose=? AND used_at IS NULL", phone, purpose).
		Order("created_at DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// MarkUsed consumes the code. It returns gorm.ErrRecordNotFound if the code was
// consumed concurrently.
func (r *otpRepository) MarkUsed(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.OTP{}).
		Where("id=? AND used_at IS NULL", id).
		Update("used_at", time.Now())
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *otpRepository) DeleteStale(ctx context.Context, expiredBefore time.Time) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("used_at IS NOT NULL OR expired_at<?", expiredBefore).
		Delete(&entity.OTP{})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}
