package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	GetAll(ctx context.Context) ([]entity.Setting, error)
	Upsert(ctx context.Context, settings ...entity.Setting) error
	GetPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error)
	GetActivePaymentMethod(ctx context.Context) (*entity.PaymentMethod, error)
	ReplacePaymentMethods(ctx context.Context, methods []entity.PaymentMethod) error
}

type settingRepository struct{}

func NewSettingRepository() *settingRepository {
	return &settingRepository{}
}

func (r *settingRepository) GetAll(ctx context.Context) ([]entity.Setting, error) {
	var result []entity.Setting
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *settingRepository) Upsert(ctx context.Context, settings ...entity.Setting) error {
	if len(settings) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&settings).Error
}

func (r *settingRepository) GetPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	var result []entity.PaymentMethod
	if err := xcontext.DB(ctx).Order("position ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *settingRepository) GetActivePaymentMethod(ctx context.Context) (*entity.PaymentMethod, error) {
	var result entity.PaymentMethod
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("position ASC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ReplacePaymentMethods must be called inside a database transaction.
func (r *settingRepository) ReplacePaymentMethods(ctx context.Context, methods []entity.PaymentMethod) error {
	if err := xcontext.DB(ctx).Unscoped().Where("1=1").Delete(&entity.PaymentMethod{}).Error; err != nil {
		return err
	}

	if len(methods) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&methods).Error
}
