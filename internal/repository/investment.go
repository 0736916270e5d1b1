package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type InvestmentRepository interface {
	Create(ctx context.Context, data *entity.Investment) error
	GetByUserID(ctx context.Context, userID string) ([]entity.Investment, error)
	SumInvestedAmount(ctx context.Context) (decimal.Decimal, error)
}

type investmentRepository struct{}

func NewInvestmentRepository() *investmentRepository {
	return &investmentRepository{}
}

func (r *investmentRepository) Create(ctx context.Context, data *entity.Investment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *investmentRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Investment, error) {
	var result []entity.Investment
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("start_date DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *investmentRepository) SumInvestedAmount(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := xcontext.DB(ctx).
		Model(&entity.Investment{}).
		Select("COALESCE(SUM(invested_amount), 0)").
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}
