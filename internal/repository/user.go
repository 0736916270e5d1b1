package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserFilter struct {
	Q      string
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	GetList(ctx context.Context, filter UserFilter) ([]entity.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	SumBalance(ctx context.Context) (decimal.Decimal, error)
	UpdateByID(ctx context.Context, id string, data map[string]any) error
	IncreaseBalance(ctx context.Context, id string, amount decimal.Decimal, totals ...string) error
	DecreaseBalance(ctx context.Context, id string, amount decimal.Decimal, totals ...string) error
	SetBalance(ctx context.Context, id string, from, to decimal.Decimal) error
	DecreaseLuckyDrawChances(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByIDForUpdate locks the row until the surrounding transaction ends.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&record, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "phone=?", phone).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// ExistsByPhone also counts deleted users, their phone numbers stay reserved.
func (r *userRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Unscoped().Model(&entity.User{}).Where("phone=?", phone).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *userRepository) filter(ctx context.Context, filter UserFilter) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.User{})
	if filter.Q != "" {
		q := "%" + filter.Q + "%"
		tx = tx.Where("name LIKE ? OR phone LIKE ?", q, q)
	}

	return tx
}

func (r *userRepository) GetList(ctx context.Context, filter UserFilter) ([]entity.User, error) {
	var result []entity.User
	err := r.filter(ctx, filter).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	var count int64
	if err := r.filter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.User{}).Where("is_active=?", true).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userRepository) SumBalance(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := xcontext.DB(ctx).Model(&entity.User{}).Select("COALESCE(SUM(balance), 0)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return sum, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data map[string]any) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// IncreaseBalance adds amount to the balance and to every given cumulative
// column, such as total_returns or recharge_amount.
func (r *userRepository) IncreaseBalance(
	ctx context.Context, id string, amount decimal.Decimal, totals ...string,
) error {
	updates := map[string]any{"balance": gorm.Expr("balance+?", amount)}
	for _, column := range totals {
		updates[column] = gorm.Expr(column+"+?", amount)
	}

	return r.UpdateByID(ctx, id, updates)
}

// DecreaseBalance subtracts amount from the balance only if the balance covers
// it. It returns gorm.ErrRecordNotFound otherwise. The totals columns are
// increased by amount.
func (r *userRepository) DecreaseBalance(
	ctx context.Context, id string, amount decimal.Decimal, totals ...string,
) error {
	updates := map[string]any{"balance": gorm.Expr("balance-?", amount)}
	for _, column := range totals {
		updates[column] = gorm.Expr(column+"+?", amount)
	}

	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND balance>=?", id, amount).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// SetBalance overwrites the balance only while it still equals from. It
// returns gorm.ErrRecordNotFound if the balance moved in between.
func (r *userRepository) SetBalance(ctx context.Context, id string, from, to decimal.Decimal) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND balance=?", id, from).
		Update("balance", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) DecreaseLuckyDrawChances(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND lucky_draw_chances>0", id).
		Update("lucky_draw_chances", gorm.Expr("lucky_draw_chances-1"))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.User{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
