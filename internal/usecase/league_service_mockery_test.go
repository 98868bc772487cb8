package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	leaguemock "github.com/openfpl/fantasy-platform/internal/mocks/domain/league"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
)

func TestLeagueService_GetLeague_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, nil, logging.NewNop())

	leagueID := "league-premier"
	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{ID: leagueID, Name: "Premier Fantasy"}, true, nil).
		Once()

	got, err := service.GetLeague(context.Background(), leagueID)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if got.ID != leagueID {
		t.Fatalf("unexpected league id: got=%s want=%s", got.ID, leagueID)
	}
	if got.Name != "Premier Fantasy" {
		t.Fatalf("unexpected league name: got=%s", got.Name)
	}
}

func TestLeagueService_GetLeague_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, nil, logging.NewNop())

	leagueID := "league-missing"
	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{}, false, nil).
		Once()

	_, err := service.GetLeague(context.Background(), leagueID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_SetWinners_SaveErrorUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, nil, logging.NewNop())

	leagueID := "league-premier"
	saveErr := errors.New("connection reset")
	leagueRepo.
		On("GetByID", mock.Anything, leagueID).
		Return(league.League{ID: leagueID}, true, nil).
		Once()
	leagueRepo.
		On("Save", mock.Anything, mock.MatchedBy(func(l league.League) bool {
			return l.ID == leagueID && len(l.WinnerIDs) == 1 && l.WinnerIDs[0] == "user-alice"
		})).
		Return(saveErr).
		Once()

	_, err := service.SetWinners(context.Background(), adminPrincipal(), leagueID, []string{"user-alice"})
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
}
