package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	filedomain "github.com/cemcalis/chiptunnig/internal/filerequest/domain"
	messagingdomain "github.com/cemcalis/chiptunnig/internal/messaging/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) messagingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("messaging.service"),
		genID: p.GenID,
	}
}

func (s *Service) Conversation(ctx context.Context, userID snowflake.ID, viewerRole string) ([]messagingdomain.DirectMessage, error) {
	var messages []messagingdomain.DirectMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Opening the thread acknowledges the other side's messages.
	otherSide := messagingdomain.SenderUser
	if viewerRole != messagingdomain.SenderAdmin {
		otherSide = messagingdomain.SenderAdmin
	}
	if err := s.db.WithContext(ctx).
		Model(&messagingdomain.DirectMessage{}).
		Where("user_id = ? AND sender_role = ? AND NOT is_read", userID, otherSide).
		Update("is_read", true).Error; err != nil {
		return nil, err
	}

	return messages, nil
}

func (s *Service) Overview(ctx context.Context) ([]messagingdomain.ConversationSummary, error) {
	var summaries []messagingdomain.ConversationSummary
	err := s.db.WithContext(ctx).
		Table("direct_messages").
		Select(`direct_messages.user_id,
			users.name AS dealer_name,
			users.company_name AS dealer_company,
			SUM(CASE WHEN direct_messages.sender_role = 'user' AND NOT direct_messages.is_read THEN 1 ELSE 0 END) AS unread_count,
			MAX(direct_messages.created_at) AS last_at`).
		Joins("JOIN users ON users.id = direct_messages.user_id").
		Group("direct_messages.user_id, users.name, users.company_name").
		Order("last_at DESC").
		Scan(&summaries).Error
	return summaries, err
}

func (s *Service) SendDirect(ctx context.Context, userID snowflake.ID, senderRole, body string) (*messagingdomain.DirectMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, messagingdomain.ErrEmptyBody
	}
	if senderRole != messagingdomain.SenderUser && senderRole != messagingdomain.SenderAdmin {
		senderRole = messagingdomain.SenderUser
	}

	message := &messagingdomain.DirectMessage{
		ID:         s.genID.Generate(),
		UserID:     userID,
		SenderRole: senderRole,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Service) ListFileMessages(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) ([]messagingdomain.FileMessage, error) {
	if err := s.authorizeThread(ctx, fileID, actorID, isAdmin); err != nil {
		return nil, err
	}

	var messages []messagingdomain.FileMessage
	err := s.db.WithContext(ctx).
		Where("file_request_id = ?", fileID).
		Order("created_at").
		Find(&messages).Error
	return messages, err
}

func (s *Service) AppendFileMessage(ctx context.Context, fileID, senderID snowflake.ID, isAdmin bool, body string) (*messagingdomain.FileMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, messagingdomain.ErrEmptyBody
	}
	if err := s.authorizeThread(ctx, fileID, senderID, isAdmin); err != nil {
		return nil, err
	}

	message := &messagingdomain.FileMessage{
		ID:            s.genID.Generate(),
		FileRequestID: fileID,
		SenderID:      senderID,
		Body:          body,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (s *Service) authorizeThread(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) error {
	var request filedomain.FileRequest
	err := s.db.WithContext(ctx).Select("id", "user_id").Where("id = ?", fileID).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return messagingdomain.ErrFileMissing
	}
	if err != nil {
		return err
	}
	if !isAdmin && request.UserID != actorID {
		return messagingdomain.ErrForbidden
	}
	return nil
}
