package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// UserService covers identity reads and the admin lifecycle operations.
// Reference-array edits belong to MembershipService, not here.
type UserService struct {
	userRepo user.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewUserService(userRepo user.Repository, logger *logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Default()
	}

	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *UserService) GetUser(ctx context.Context, principal user.Principal, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.GetUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !principal.CanActFor(userID) {
		return user.User{}, fmt.Errorf("%w: cannot read another user's profile", ErrForbidden)
	}

	usr, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists || usr.IsDeleted {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return usr, nil
}

func (s *UserService) ListUsers(ctx context.Context, principal user.Principal, filter user.ListFilter) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.ListUsers")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	filter.Keyword = strings.TrimSpace(filter.Keyword)
	if filter.Limit <= 0 {
		filter.Limit = defaultUserPageSize
	}
	if filter.Limit > maxUserPageSize {
		filter.Limit = maxUserPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// SoftDeleteUser marks the account deleted without removing the row.
func (s *UserService) SoftDeleteUser(ctx context.Context, principal user.Principal, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.SoftDeleteUser")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	usr, err := s.loadForAdmin(ctx, userID)
	if err != nil {
		return err
	}

	usr.IsDeleted = true
	usr.Status = user.StatusDeactivated
	usr.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Save(ctx, usr); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	s.logger.InfoContext(ctx, "user soft-deleted", "user_id", usr.ID)

	return nil
}

func (s *UserService) SuspendUser(ctx context.Context, principal user.Principal, userID string) error {
	return s.setStatus(ctx, principal, userID, user.StatusSuspended)
}

func (s *UserService) ActivateUser(ctx context.Context, principal user.Principal, userID string) error {
	return s.setStatus(ctx, principal, userID, user.StatusActive)
}

func (s *UserService) setStatus(ctx context.Context, principal user.Principal, userID string, status user.Status) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.setStatus")
	defer span.End()

	if !principal.IsSuperAdmin() {
		return fmt.Errorf("%w: super-admin role required", ErrForbidden)
	}

	usr, err := s.loadForAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if usr.Status == status {
		return nil
	}

	usr.Status = status
	usr.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Save(ctx, usr); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	s.logger.InfoContext(ctx, "user status changed",
		"user_id", usr.ID,
		"status", string(status),
	)

	return nil
}

func (s *UserService) loadForAdmin(ctx context.Context, userID string) (user.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	usr, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return usr, nil
}
