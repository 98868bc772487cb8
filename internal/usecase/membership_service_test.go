package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/infrastructure/repository/memory"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

type membershipFixture struct {
	users       *memory.UserRepository
	leagues     *memory.LeagueRepository
	aggs        *memory.UserLeagueRepository
	badges      *memory.BadgeRepository
	prizes      *memory.PrizeRepository
	boosters    *memory.BoosterRepository
	coordinator *memory.MembershipRepository
	service     *MembershipService
}

func newMembershipFixture(t *testing.T) *membershipFixture {
	t.Helper()

	f := &membershipFixture{
		users:    memory.NewUserRepository(memory.SeedUsers()),
		leagues:  memory.NewLeagueRepository(memory.SeedLeagues()),
		aggs:     memory.NewUserLeagueRepository(),
		badges:   memory.NewBadgeRepository(nil),
		prizes:   memory.NewPrizeRepository(nil),
		boosters: memory.NewBoosterRepository(nil),
	}
	f.coordinator = memory.NewMembershipRepository(f.users, f.leagues, f.aggs, f.badges, f.prizes, f.boosters)
	f.service = NewMembershipService(f.users, f.leagues, f.aggs, f.badges, f.prizes, f.coordinator, logging.NewNop())
	return f
}

func alicePrincipal() user.Principal {
	return user.Principal{UserID: memory.UserIDAlice, Role: user.RoleRegistered}
}

func userPrincipal(userID string) user.Principal {
	return user.Principal{UserID: userID, Role: user.RoleRegistered}
}

func adminPrincipal() user.Principal {
	return user.Principal{UserID: memory.UserIDAdmin, Role: user.RoleSuperAdmin}
}

func TestMembershipService_JoinLeague(t *testing.T) {
	f := newMembershipFixture(t)
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return now }

	info, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier)
	if err != nil {
		t.Fatalf("join league failed: %v", err)
	}

	if info.TeamName != "Alice's Team" {
		t.Fatalf("expected default team name, got %s", info.TeamName)
	}
	if !info.JoinedAt.Equal(now) {
		t.Fatalf("expected joined at %v, got %v", now, info.JoinedAt)
	}

	usr, _, _ := f.users.GetByID(t.Context(), memory.UserIDAlice)
	if len(usr.LeagueIDs) != 1 || usr.LeagueIDs[0] != memory.LeagueIDPremier {
		t.Fatalf("user side not mirrored: %v", usr.LeagueIDs)
	}
	lg, _, _ := f.leagues.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(lg.UserIDs) != 1 || lg.UserIDs[0] != memory.UserIDAlice {
		t.Fatalf("league side not mirrored: %v", lg.UserIDs)
	}
	if _, exists, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDPremier); !exists {
		t.Fatalf("aggregate was not created")
	}
}

func TestMembershipService_JoinLeague_DoubleJoinConflict(t *testing.T) {
	f := newMembershipFixture(t)

	if _, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier); err != nil {
		t.Fatalf("first join failed: %v", err)
	}

	_, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	infos, _ := f.aggs.ListByUser(t.Context(), memory.UserIDAlice)
	if len(infos) != 1 {
		t.Fatalf("expected exactly one aggregate, got %d", len(infos))
	}
}

func TestMembershipService_JoinLeague_Authz(t *testing.T) {
	f := newMembershipFixture(t)

	_, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDBram, memory.LeagueIDPremier)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := f.service.JoinLeague(t.Context(), adminPrincipal(), memory.UserIDBram, memory.LeagueIDPremier); err != nil {
		t.Fatalf("admin join for other user failed: %v", err)
	}
}

func TestMembershipService_JoinLeague_UnknownTargets(t *testing.T) {
	f := newMembershipFixture(t)

	_, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, "league-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing league, got %v", err)
	}

	_, err = f.service.JoinLeague(t.Context(), adminPrincipal(), "user-missing", memory.LeagueIDPremier)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestMembershipService_JoinLeague_AtomicUnderFault(t *testing.T) {
	f := newMembershipFixture(t)

	injected := fmt.Errorf("injected fault")
	f.coordinator.FaultHook = func(step string) error {
		if step == memory.StepSaveAggregate {
			return injected
		}
		return nil
	}

	_, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier)
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected fault, got %v", err)
	}

	usr, _, _ := f.users.GetByID(t.Context(), memory.UserIDAlice)
	if len(usr.LeagueIDs) != 0 {
		t.Fatalf("user side written despite fault: %v", usr.LeagueIDs)
	}
	lg, _, _ := f.leagues.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(lg.UserIDs) != 0 {
		t.Fatalf("league side written despite fault: %v", lg.UserIDs)
	}
	if _, exists, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDPremier); exists {
		t.Fatalf("aggregate created despite fault")
	}
}

func TestMembershipService_LeaveLeague_KeepsAggregate(t *testing.T) {
	f := newMembershipFixture(t)

	if _, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := f.service.LeaveLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	usr, _, _ := f.users.GetByID(t.Context(), memory.UserIDAlice)
	if len(usr.LeagueIDs) != 0 {
		t.Fatalf("user side not cleared: %v", usr.LeagueIDs)
	}
	lg, _, _ := f.leagues.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(lg.UserIDs) != 0 {
		t.Fatalf("league side not cleared: %v", lg.UserIDs)
	}
	if _, exists, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDPremier); !exists {
		t.Fatalf("aggregate must survive a leave")
	}
}

func TestMembershipService_LeaveLeague_NotMember(t *testing.T) {
	f := newMembershipFixture(t)

	err := f.service.LeaveLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMembershipService_SetUserLeagues(t *testing.T) {
	f := newMembershipFixture(t)

	if _, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// Swap premier for eredivisie in one bulk edit.
	updated, err := f.service.SetUserLeagues(t.Context(), adminPrincipal(), memory.UserIDAlice, []string{memory.LeagueIDEredivie})
	if err != nil {
		t.Fatalf("set user leagues failed: %v", err)
	}
	if len(updated.LeagueIDs) != 1 || updated.LeagueIDs[0] != memory.LeagueIDEredivie {
		t.Fatalf("unexpected league ids: %v", updated.LeagueIDs)
	}

	oldLeague, _, _ := f.leagues.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(oldLeague.UserIDs) != 0 {
		t.Fatalf("removed league still lists the user: %v", oldLeague.UserIDs)
	}
	newLeague, _, _ := f.leagues.GetByID(t.Context(), memory.LeagueIDEredivie)
	if len(newLeague.UserIDs) != 1 || newLeague.UserIDs[0] != memory.UserIDAlice {
		t.Fatalf("added league does not list the user: %v", newLeague.UserIDs)
	}

	// Bulk removal deletes the aggregate, unlike LeaveLeague.
	if _, exists, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDPremier); exists {
		t.Fatalf("aggregate for removed league must be deleted")
	}
	if _, exists, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDEredivie); !exists {
		t.Fatalf("aggregate for added league must be created")
	}
}

func TestMembershipService_SetUserLeagues_Idempotent(t *testing.T) {
	f := newMembershipFixture(t)

	if _, err := f.service.JoinLeague(t.Context(), alicePrincipal(), memory.UserIDAlice, memory.LeagueIDPremier); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	before, _, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDPremier)

	if _, err := f.service.SetUserLeagues(t.Context(), adminPrincipal(), memory.UserIDAlice, []string{memory.LeagueIDPremier}); err != nil {
		t.Fatalf("no-op set failed: %v", err)
	}

	after, exists, _ := f.aggs.GetByPair(t.Context(), memory.UserIDAlice, memory.LeagueIDPremier)
	if !exists || !after.JoinedAt.Equal(before.JoinedAt) {
		t.Fatalf("existing aggregate must be left alone")
	}
	lg, _, _ := f.leagues.GetByID(t.Context(), memory.LeagueIDPremier)
	if len(lg.UserIDs) != 1 {
		t.Fatalf("membership duplicated: %v", lg.UserIDs)
	}
}

func TestMembershipService_SetUserRefs_RequiresAdmin(t *testing.T) {
	f := newMembershipFixture(t)

	_, err := f.service.SetUserLeagues(t.Context(), alicePrincipal(), memory.UserIDAlice, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMembershipService_SetUserBadges_Symmetric(t *testing.T) {
	f := newMembershipFixture(t)

	badge := seedBadge(t, f, "badge-1", "Early Bird")

	if _, err := f.service.SetUserBadges(t.Context(), adminPrincipal(), memory.UserIDAlice, []string{badge.ID}); err != nil {
		t.Fatalf("set badges failed: %v", err)
	}

	usr, _, _ := f.users.GetByID(t.Context(), memory.UserIDAlice)
	if len(usr.BadgeIDs) != 1 || usr.BadgeIDs[0] != badge.ID {
		t.Fatalf("user badge refs wrong: %v", usr.BadgeIDs)
	}
	stored, _, _ := f.badges.GetByID(t.Context(), badge.ID)
	if len(stored.UserIDs) != 1 || stored.UserIDs[0] != memory.UserIDAlice {
		t.Fatalf("badge user refs wrong: %v", stored.UserIDs)
	}

	if _, err := f.service.SetUserBadges(t.Context(), adminPrincipal(), memory.UserIDAlice, nil); err != nil {
		t.Fatalf("clear badges failed: %v", err)
	}
	stored, _, _ = f.badges.GetByID(t.Context(), badge.ID)
	if len(stored.UserIDs) != 0 {
		t.Fatalf("badge still references the user: %v", stored.UserIDs)
	}
}
