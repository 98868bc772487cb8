package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

func newUserService() (*UserService, *memory.UserRepository) {
	users := memory.NewUserRepository(memory.SeedUsers())
	return NewUserService(users, logging.NewNop()), users
}

func TestUserService_GetUser(t *testing.T) {
	svc, _ := newUserService()

	usr, err := svc.GetUser(t.Context(), alicePrincipal(), memory.UserIDAlice)
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if usr.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", usr)
	}

	_, err = svc.GetUser(t.Context(), alicePrincipal(), memory.UserIDBram)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := svc.GetUser(t.Context(), adminPrincipal(), memory.UserIDBram); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
}

func TestUserService_GetUser_DeletedIsNotFound(t *testing.T) {
	svc, _ := newUserService()

	if err := svc.SoftDeleteUser(t.Context(), adminPrincipal(), memory.UserIDAlice); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	_, err := svc.GetUser(t.Context(), adminPrincipal(), memory.UserIDAlice)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted user, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.ListUsers(t.Context(), alicePrincipal(), user.ListFilter{})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	users, err := svc.ListUsers(t.Context(), adminPrincipal(), user.ListFilter{Keyword: "bram"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != memory.UserIDBram {
		t.Fatalf("unexpected keyword result: %v", users)
	}
}

func TestUserService_SoftDeleteUser(t *testing.T) {
	svc, repo := newUserService()
	now := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if err := svc.SoftDeleteUser(t.Context(), adminPrincipal(), memory.UserIDAlice); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	usr, exists, _ := repo.GetByID(t.Context(), memory.UserIDAlice)
	if !exists {
		t.Fatalf("row must survive a soft delete")
	}
	if !usr.IsDeleted || usr.Status != user.StatusDeactivated {
		t.Fatalf("soft delete flags wrong: %+v", usr)
	}
	if !usr.UpdatedAt.Equal(now) {
		t.Fatalf("updated at not stamped")
	}
}

func TestUserService_SuspendAndActivate(t *testing.T) {
	svc, repo := newUserService()

	if err := svc.SuspendUser(t.Context(), adminPrincipal(), memory.UserIDBram); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	usr, _, _ := repo.GetByID(t.Context(), memory.UserIDBram)
	if usr.Status != user.StatusSuspended {
		t.Fatalf("expected suspended, got %s", usr.Status)
	}

	if err := svc.ActivateUser(t.Context(), adminPrincipal(), memory.UserIDBram); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	usr, _, _ = repo.GetByID(t.Context(), memory.UserIDBram)
	if usr.Status != user.StatusActive {
		t.Fatalf("expected active, got %s", usr.Status)
	}

	if err := svc.SuspendUser(t.Context(), alicePrincipal(), memory.UserIDBram); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
