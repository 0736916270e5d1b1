package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BankAccountRepository interface {
	Upsert(ctx context.Context, data *entity.BankAccount) error
	GetByUserID(ctx context.Context, userID string) (*entity.BankAccount, error)
}

type bankAccountRepository struct{}

func NewBankAccountRepository() *bankAccountRepository {
	return &bankAccountRepository{}
}

func (r *bankAccountRepository) Upsert(ctx context.Context, data *entity.BankAccount) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"account_holder", "account_number", "ifsc_code", "updated_at",
			}),
		}).
		Create(data).Error
}

func (r *bankAccountRepository) GetByUserID(ctx context.Context, userID string) (*entity.BankAccount, error) {
	var result entity.BankAccount
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
