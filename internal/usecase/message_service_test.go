package usecase

import (
	"errors"
	"testing"

	"github.com/openfpl/fantasy-platform/internal/domain/message"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

func newMessageService() (*MessageService, *memory.MessageRepository) {
	msgs := memory.NewMessageRepository()
	users := memory.NewUserRepository(memory.SeedUsers())
	return NewMessageService(msgs, users, &staticIDGenerator{}, logging.NewNop()), msgs
}

func TestMessageService_Send(t *testing.T) {
	svc, _ := newMessageService()

	msg, err := svc.Send(t.Context(), adminPrincipal(), SendMessageInput{
		UserID:  memory.UserIDAlice,
		Sender:  message.SenderAdmin,
		Subject: "Welcome",
		Body:    "Season starts Friday.",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg.IsRead {
		t.Fatalf("new message must start unread")
	}

	listed, err := svc.ListForUser(t.Context(), alicePrincipal(), memory.UserIDAlice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != msg.ID {
		t.Fatalf("unexpected inbox: %v", listed)
	}
}

func TestMessageService_Send_Authz(t *testing.T) {
	svc, _ := newMessageService()

	_, err := svc.Send(t.Context(), alicePrincipal(), SendMessageInput{
		UserID:  memory.UserIDAlice,
		Sender:  message.SenderAdmin,
		Subject: "Fake notice",
		Body:    "x",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin sender, got %v", err)
	}

	_, err = svc.Send(t.Context(), alicePrincipal(), SendMessageInput{
		UserID:  memory.UserIDBram,
		Sender:  message.SenderUser,
		Subject: "Hi",
		Body:    "x",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for impersonation, got %v", err)
	}
}

func TestMessageService_Send_UnknownUser(t *testing.T) {
	svc, _ := newMessageService()

	_, err := svc.Send(t.Context(), adminPrincipal(), SendMessageInput{
		UserID:  "user-missing",
		Sender:  message.SenderAdmin,
		Subject: "Hi",
		Body:    "x",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageService_MarkRead(t *testing.T) {
	svc, _ := newMessageService()

	msg, err := svc.Send(t.Context(), adminPrincipal(), SendMessageInput{
		UserID:  memory.UserIDAlice,
		Sender:  message.SenderAdmin,
		Subject: "Welcome",
		Body:    "x",
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	read, err := svc.MarkRead(t.Context(), alicePrincipal(), msg.ID)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if !read.IsRead {
		t.Fatalf("message not marked read")
	}

	// Idempotent.
	again, err := svc.MarkRead(t.Context(), alicePrincipal(), msg.ID)
	if err != nil || !again.IsRead {
		t.Fatalf("second mark read failed: %v", err)
	}

	bram := memory.UserIDBram
	_, err = svc.MarkRead(t.Context(), userPrincipal(bram), msg.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
}
