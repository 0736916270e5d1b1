package repository

import (
	"context"
	"time"

	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	GetSession(ctx context.Context, userID string) (*entity.ChatSession, error)
	CreateSessionIfNotExists(ctx context.Context, userID string) error
	GetSessions(ctx context.Context, offset, limit int) ([]entity.ChatSession, error)
	IncreaseUnread(ctx context.Context, userID string, column string, at time.Time) error
	ResetUnread(ctx context.Context, userID string, column string) error
	CreateMessage(ctx context.Context, msg *entity.ChatMessage) error
	GetMessages(ctx context.Context, userIDs ...string) ([]entity.ChatMessage, error)
}

const (
	UserUnreadColumn  = "user_unread_count"
	AdminUnreadColumn = "admin_unread_count"
)

type chatRepository struct{}

func NewChatRepository() *chatRepository {
	return &chatRepository{}
}

func (r *chatRepository) GetSession(ctx context.Context, userID string) (*entity.ChatSession, error) {
	var result entity.ChatSession
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *chatRepository) CreateSessionIfNotExists(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.ChatSession{UserID: userID, LastMessageAt: time.Now()}).Error
}

func (r *chatRepository) GetSessions(ctx context.Context, offset, limit int) ([]entity.ChatSession, error) {
	var result []entity.ChatSession
	err := xcontext.DB(ctx).
		Joins("User").
		Order("last_message_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *chatRepository) IncreaseUnread(ctx context.Context, userID string, column string, at time.Time) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChatSession{}).
		Where("user_id=?", userID).
		Updates(map[string]any{
			column:            gorm.Expr(column + "+1"),
			"last_message_at": at,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *chatRepository) ResetUnread(ctx context.Context, userID string, column string) error {
	return xcontext.DB(ctx).
		Model(&entity.ChatSession{}).
		Where("user_id=?", userID).
		Update(column, 0).Error
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *entity.ChatMessage) error {
	return xcontext.DB(ctx).Create(msg).Error
}

// GetMessages returns the messages of the sessions owned by the given users in
// chronological order.
func (r *chatRepository) GetMessages(ctx context.Context, userIDs ...string) ([]entity.ChatMessage, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var result []entity.ChatMessage
	err := xcontext.DB(ctx).
		Where("session_user_id IN (?)", userIDs).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
