package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/message"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/platform/id"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

// MessageService is the user inbox. Messaging has no coupling to the
// membership or aggregate invariants.
type MessageService struct {
	msgRepo  message.Repository
	userRepo user.Repository
	idGen    id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewMessageService(msgRepo message.Repository, userRepo user.Repository, idGen id.Generator, logger *logging.Logger) *MessageService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MessageService{
		msgRepo:  msgRepo,
		userRepo: userRepo,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

type SendMessageInput struct {
	UserID  string
	Sender  message.Sender
	Subject string
	Body    string
}

func (s *MessageService) Send(ctx context.Context, principal user.Principal, input SendMessageInput) (message.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.Send")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Body = strings.TrimSpace(input.Body)

	if input.UserID == "" {
		return message.Message{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Sender == message.SenderAdmin && !principal.IsSuperAdmin() {
		return message.Message{}, fmt.Errorf("%w: admin sender requires super-admin role", ErrForbidden)
	}
	if input.Sender == message.SenderUser && !principal.CanActFor(input.UserID) {
		return message.Message{}, fmt.Errorf("%w: cannot send as another user", ErrForbidden)
	}

	_, exists, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return message.Message{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return message.Message{}, fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
	}

	msgID, err := s.idGen.NewID()
	if err != nil {
		return message.Message{}, fmt.Errorf("generate message id: %w", err)
	}

	msg := message.Message{
		ID:        msgID,
		UserID:    input.UserID,
		Sender:    input.Sender,
		Subject:   input.Subject,
		Body:      input.Body,
		CreatedAt: s.now().UTC(),
	}
	if err := msg.Validate(); err != nil {
		return message.Message{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.msgRepo.Save(ctx, msg); err != nil {
		return message.Message{}, fmt.Errorf("save message: %w", err)
	}

	s.logger.InfoContext(ctx, "message sent",
		"message_id", msg.ID,
		"user_id", msg.UserID,
		"sender", string(msg.Sender),
	)

	return msg, nil
}

func (s *MessageService) ListForUser(ctx context.Context, principal user.Principal, userID string) ([]message.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.ListForUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !principal.CanActFor(userID) {
		return nil, fmt.Errorf("%w: cannot read another user's messages", ErrForbidden)
	}

	messages, err := s.msgRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}

func (s *MessageService) MarkRead(ctx context.Context, principal user.Principal, messageID string) (message.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MessageService.MarkRead")
	defer span.End()

	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return message.Message{}, fmt.Errorf("%w: message id is required", ErrInvalidInput)
	}

	msg, exists, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return message.Message{}, fmt.Errorf("get message: %w", err)
	}
	if !exists {
		return message.Message{}, fmt.Errorf("%w: message=%s", ErrNotFound, messageID)
	}
	if !principal.CanActFor(msg.UserID) {
		return message.Message{}, fmt.Errorf("%w: cannot modify another user's message", ErrForbidden)
	}

	if msg.IsRead {
		return msg, nil
	}

	msg.IsRead = true
	if err := s.msgRepo.Save(ctx, msg); err != nil {
		return message.Message{}, fmt.Errorf("save message: %w", err)
	}

	return msg, nil
}
