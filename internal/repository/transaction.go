package repository

import (
	"context"
	"time"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id int64) (*entity.Transaction, error)
	GetByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Transaction, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	UpdateStatus(
		ctx context.Context, id int64,
		from, to entity.TransactionStatus, description string,
	) error
	MarkAllAsRead(ctx context.Context, userID string) error
	ExpirePendingDeposits(ctx context.Context, before time.Time, description string) (int64, error)
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return xcontext.DB(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	var result entity.Transaction
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *transactionRepository) GetByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *transactionRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Transaction{}).
		Where("user_id=? AND is_read=?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateStatus moves the transaction from one status to another. It returns
// gorm.ErrRecordNotFound if the transaction is not in the from status anymore.
func (r *transactionRepository) UpdateStatus(
	ctx context.Context, id int64,
	from, to entity.TransactionStatus, description string,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Transaction{}).
		Where("id=? AND status=?", id, from).
		Updates(map[string]any{
			"status":      to,
			"description": description,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *transactionRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Model(&entity.Transaction{}).
		Where("user_id=? AND is_read=?", userID, false).
		Update("is_read", true).Error
}

func (r *transactionRepository) ExpirePendingDeposits(
	ctx context.Context, before time.Time, description string,
) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Transaction{}).
		Where("type=? AND status=? AND created_at<?",
			entity.TransactionDeposit, entity.TransactionPending, before).
		Updates(map[string]any{
			"status":      entity.TransactionExpired,
			"description": description,
		})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}
