package repository

import (
	"context"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, data *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Comment, error)
	UpdateText(ctx context.Context, id, text string) error
	DeleteByID(ctx context.Context, id string) error
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, data *entity.Comment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var result entity.Comment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *commentRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Comment, error) {
	var result []entity.Comment
	err := xcontext.DB(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) UpdateText(ctx context.Context, id, text string) error {
	tx := xcontext.DB(ctx).Model(&entity.Comment{}).Where("id=?", id).Update("text", text)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *commentRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Comment{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
