package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/requestdata"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type MessageService interface {
	Send(ctx context.Context, recipientID uuid.UUID, body string) (*types.Message, error)
	Conversation(ctx context.Context, otherUserID uuid.UUID, limit, offset int) ([]*types.Message, error)
	Inbox(ctx context.Context, limit, offset int) ([]*types.Message, error)
	MarkRead(ctx context.Context, messageIDs []uuid.UUID) error
}

type messageService struct {
	db          *gorm.DB
	log         *logger.Logger
	messageRepo repos.MessageRepo
	userRepo    repos.UserRepo
}

func NewMessageService(db *gorm.DB, log *logger.Logger, messageRepo repos.MessageRepo, userRepo repos.UserRepo) MessageService {
	serviceLog := log.With("service", "MessageService")
	return &messageService{
		db:          db,
		log:         serviceLog,
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

func (ms *messageService) Send(ctx context.Context, recipientID uuid.UUID, body string) (*types.Message, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	if recipientID == rd.UserID {
		return nil, fmt.Errorf("cannot message yourself")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("a message body is required")
	}
	recipients, err := ms.userRepo.GetByIDs(ctx, nil, []uuid.UUID{recipientID})
	if err != nil {
		return nil, fmt.Errorf("error checking recipient: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("recipient does not exist")
	}
	message := &types.Message{
		ID:          uuid.New(),
		SenderID:    rd.UserID,
		RecipientID: recipientID,
		Body:        body,
	}
	return ms.messageRepo.Create(ctx, nil, message)
}

func (ms *messageService) Conversation(ctx context.Context, otherUserID uuid.UUID, limit, offset int) ([]*types.Message, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	if limit <= 0 {
		limit = defaultPostPageSize
	}
	if limit > maxPostPageSize {
		limit = maxPostPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return ms.messageRepo.ListConversation(ctx, nil, rd.UserID, otherUserID, limit, offset)
}

func (ms *messageService) Inbox(ctx context.Context, limit, offset int) ([]*types.Message, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	if limit <= 0 {
		limit = defaultPostPageSize
	}
	if limit > maxPostPageSize {
		limit = maxPostPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return ms.messageRepo.ListInbox(ctx, nil, rd.UserID, limit, offset)
}

func (ms *messageService) MarkRead(ctx context.Context, messageIDs []uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no authenticated user in context")
	}
	return ms.messageRepo.MarkRead(ctx, nil, rd.UserID, messageIDs)
}
