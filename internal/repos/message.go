package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error)
	ListConversation(ctx context.Context, tx *gorm.DB, userA, userB uuid.UUID, limit, offset int) ([]*types.Message, error)
	ListInbox(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Message, error)
	MarkRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, messageIDs []uuid.UUID) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	repoLog := baseLog.With("repo", "MessageRepo")
	return &messageRepo{db: db, log: repoLog}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (mr *messageRepo) ListConversation(ctx context.Context, tx *gorm.DB, userA, userB uuid.UUID, limit, offset int) ([]*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Message
	if err := transaction.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", userA, userB, userB, userA).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *messageRepo) ListInbox(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.Message
	if err := transaction.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *messageRepo) MarkRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, messageIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(messageIDs) == 0 {
		return nil
	}
	now := time.Now()
	return transaction.WithContext(ctx).
		Model(&types.Message{}).
		Where("recipient_id = ? AND id IN ? AND read_at IS NULL", recipientID, messageIDs).
		Update("read_at", &now).Error
}
