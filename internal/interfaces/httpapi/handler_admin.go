package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

// Admin surface. Role checks live in the use cases; these handlers only
// shape requests and responses.

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filter := user.ListFilter{
		Keyword:        strings.TrimSpace(r.URL.Query().Get("keyword")),
		IncludeDeleted: r.URL.Query().Get("includeDeleted") == "true",
		Limit:          queryInt(r, "limit"),
		Offset:         queryInt(r, "offset"),
	}

	users, err := h.userService.ListUsers(ctx, principal, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteUser")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	if err := h.userService.SoftDeleteUser(ctx, principal, userID); err != nil {
		h.logger.WarnContext(ctx, "soft delete user failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SuspendUser")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.userService.SuspendUser(ctx, principal, r.PathValue("userID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "suspended"})
}

func (h *Handler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateUser")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.userService.ActivateUser(ctx, principal, r.PathValue("userID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "active"})
}

func (h *Handler) SetUserRefs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetUserRefs")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setUserRefsRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	u, err := h.membershipService.SetUserRefs(ctx, principal, userID, usecase.SetUserRefsInput{
		LeagueIDs: req.LeagueIDs,
		BadgeIDs:  req.BadgeIDs,
		PrizeIDs:  req.PrizeIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set user refs failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(u))
}

func (h *Handler) SetUserLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetUserLeagues")
	defer span.End()

	h.setUserIDList(w, r.WithContext(ctx), h.membershipService.SetUserLeagues)
}

func (h *Handler) SetUserBadges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetUserBadges")
	defer span.End()

	h.setUserIDList(w, r.WithContext(ctx), h.membershipService.SetUserBadges)
}

func (h *Handler) SetUserPrizes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetUserPrizes")
	defer span.End()

	h.setUserIDList(w, r.WithContext(ctx), h.membershipService.SetUserPrizes)
}

func (h *Handler) setUserIDList(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, principal user.Principal, userID string, ids []string) (user.User, error),
) {
	ctx := r.Context()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req idListRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	u, err := apply(ctx, principal, userID, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "set user reference list failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(u))
}

// Badge / prize / booster maintenance.

func (h *Handler) CreateBadge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBadge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodeBadgeRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	b, err := h.rewardService.CreateBadge(ctx, principal, req)
	if err != nil {
		h.logger.WarnContext(ctx, "create badge failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, badgeToDTO(b))
}

func (h *Handler) UpdateBadge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateBadge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodeBadgeRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	badgeID := r.PathValue("badgeID")
	b, err := h.rewardService.UpdateBadge(ctx, principal, badgeID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update badge failed", "badge_id", badgeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, badgeToDTO(b))
}

func (h *Handler) DeleteBadge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBadge")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	badgeID := r.PathValue("badgeID")
	if err := h.rewardService.DeleteBadge(ctx, principal, badgeID); err != nil {
		h.logger.WarnContext(ctx, "delete badge failed", "badge_id", badgeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decodeBadgeRequest(ctx context.Context, r *http.Request) (usecase.BadgeInput, error) {
	var req badgeUpsertRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return usecase.BadgeInput{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.BadgeInput{}, err
	}

	return usecase.BadgeInput{
		Name:        req.Name,
		Description: req.Description,
		Condition:   req.Condition,
		Tags:        req.Tags,
		UserIDs:     req.UserIDs,
		LeagueIDs:   req.LeagueIDs,
	}, nil
}

func (h *Handler) CreatePrize(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrize")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodePrizeRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.rewardService.CreatePrize(ctx, principal, req)
	if err != nil {
		h.logger.WarnContext(ctx, "create prize failed", "title", req.Title, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, prizeToDTO(p))
}

func (h *Handler) UpdatePrize(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePrize")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodePrizeRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	prizeID := r.PathValue("prizeID")
	p, err := h.rewardService.UpdatePrize(ctx, principal, prizeID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update prize failed", "prize_id", prizeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, prizeToDTO(p))
}

func (h *Handler) DeletePrize(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePrize")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	prizeID := r.PathValue("prizeID")
	if err := h.rewardService.DeletePrize(ctx, principal, prizeID); err != nil {
		h.logger.WarnContext(ctx, "delete prize failed", "prize_id", prizeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decodePrizeRequest(ctx context.Context, r *http.Request) (usecase.PrizeInput, error) {
	var req prizeUpsertRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return usecase.PrizeInput{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.PrizeInput{}, err
	}

	return usecase.PrizeInput{
		Title:       req.Title,
		Description: req.Description,
		Reward:      req.Reward,
		Condition:   req.Condition,
		RankRange:   req.RankRange,
		UserIDs:     req.UserIDs,
		LeagueIDs:   req.LeagueIDs,
	}, nil
}

func (h *Handler) CreateBooster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBooster")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodeBoosterRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	b, err := h.rewardService.CreateBooster(ctx, principal, req)
	if err != nil {
		h.logger.WarnContext(ctx, "create booster failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, boosterToDTO(b))
}

func (h *Handler) UpdateBooster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateBooster")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req, err := h.decodeBoosterRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	boosterID := r.PathValue("boosterID")
	b, err := h.rewardService.UpdateBooster(ctx, principal, boosterID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "update booster failed", "booster_id", boosterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boosterToDTO(b))
}

func (h *Handler) DeleteBooster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBooster")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	boosterID := r.PathValue("boosterID")
	if err := h.rewardService.DeleteBooster(ctx, principal, boosterID); err != nil {
		h.logger.WarnContext(ctx, "delete booster failed", "booster_id", boosterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decodeBoosterRequest(ctx context.Context, r *http.Request) (usecase.BoosterInput, error) {
	var req boosterUpsertRequest
	if err := h.decodeJSON(r, &req); err != nil {
		return usecase.BoosterInput{}, err
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return usecase.BoosterInput{}, err
	}

	return usecase.BoosterInput{
		Name:        req.Name,
		Description: req.Description,
		Effect:      req.Effect,
		Tags:        req.Tags,
		LeagueIDs:   req.LeagueIDs,
	}, nil
}

// League winners.

func (h *Handler) SetLeagueWinners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetLeagueWinners")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setWinnersRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	lg, err := h.leagueService.SetWinners(ctx, principal, leagueID, req.WinnerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "set league winners failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(lg))
}

// Internal jobs.

func (h *Handler) RecomputeRanks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeRanks")
	defer span.End()

	var req idListRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.rankService.RecomputeLeagueRanks(ctx, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "rank recompute failed", "league_count", len(req.IDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) SyncSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncSnapshots")
	defer span.End()

	var req idListRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.SyncLeagueSnapshots(ctx, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "snapshot sync failed", "league_count", len(req.IDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
