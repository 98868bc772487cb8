package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/message"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/platform/logging"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

const maxRequestBody = 1 << 20

type Handler struct {
	membershipService *usecase.MembershipService
	aggregateService  *usecase.AggregateService
	leagueService     *usecase.LeagueService
	userService       *usecase.UserService
	rewardService     *usecase.RewardService
	messageService    *usecase.MessageService
	rankService       *usecase.RankService
	syncService       *usecase.SyncService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	membershipService *usecase.MembershipService,
	aggregateService *usecase.AggregateService,
	leagueService *usecase.LeagueService,
	userService *usecase.UserService,
	rewardService *usecase.RewardService,
	messageService *usecase.MessageService,
	rankService *usecase.RankService,
	syncService *usecase.SyncService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		membershipService: membershipService,
		aggregateService:  aggregateService,
		leagueService:     leagueService,
		userService:       userService,
		rewardService:     rewardService,
		messageService:    messageService,
		rankService:       rankService,
		syncService:       syncService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeJSON(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: no authenticated principal", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func queryInt(r *http.Request, key string) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// League catalog.

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	filter := league.ListFilter{
		Keyword: strings.TrimSpace(r.URL.Query().Get("keyword")),
		Status:  league.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Limit:   queryInt(r, "limit"),
		Offset:  queryInt(r, "offset"),
	}

	leagues, err := h.leagueService.ListLeagues(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	lg, err := h.leagueService.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(lg))
}

// Reward catalogs (public reads).

func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBadges")
	defer span.End()

	badges, err := h.rewardService.ListBadges(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list badges failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]badgeDTO, 0, len(badges))
	for _, b := range badges {
		items = append(items, badgeToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPrizes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPrizes")
	defer span.End()

	prizes, err := h.rewardService.ListPrizes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list prizes failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]prizeDTO, 0, len(prizes))
	for _, p := range prizes {
		items = append(items, prizeToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListBoosters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBoosters")
	defer span.End()

	boosters, err := h.rewardService.ListBoosters(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list boosters failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]boosterDTO, 0, len(boosters))
	for _, b := range boosters {
		items = append(items, boosterToDTO(b))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// Membership.

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	leagueID := r.PathValue("leagueID")
	info, err := h.membershipService.JoinLeague(ctx, principal, userID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed",
			"user_id", userID,
			"league_id", leagueID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, infoToDTO(info))
}

func (h *Handler) LeaveLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveLeague")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	leagueID := r.PathValue("leagueID")
	if err := h.membershipService.LeaveLeague(ctx, principal, userID, leagueID); err != nil {
		h.logger.WarnContext(ctx, "leave league failed",
			"user_id", userID,
			"league_id", leagueID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "left"})
}

// Aggregates.

func (h *Handler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAggregate")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.aggregateService.GetAggregate(ctx, principal, r.PathValue("userID"), r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, aggregateViewToDTO(view))
}

func (h *Handler) PatchAggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PatchAggregate")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	patch, err := userleague.DecodePatch(body)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid patch payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	userID := r.PathValue("userID")
	leagueID := r.PathValue("leagueID")
	info, err := h.aggregateService.DeepUpdate(ctx, principal, userID, leagueID, patch)
	if err != nil {
		h.logger.WarnContext(ctx, "aggregate patch failed",
			"user_id", userID,
			"league_id", leagueID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, infoToDTO(info))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTeamRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := r.PathValue("userID")
	leagueID := r.PathValue("leagueID")
	info, err := h.aggregateService.CreateTeamForGameweek(ctx, principal, usecase.CreateTeamInput{
		UserID:         userID,
		LeagueID:       leagueID,
		GameweekNumber: req.GameweekNumber,
		PlayerIDs:      req.PlayerIDs,
		Captain:        req.Captain,
		ViceCaptain:    req.ViceCaptain,
		Budget:         req.Budget,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create gameweek team failed",
			"user_id", userID,
			"league_id", leagueID,
			"gameweek", req.GameweekNumber,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, infoToDTO(info))
}

// Users (self reads).

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUser")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.userService.GetUser(ctx, principal, r.PathValue("userID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, userToDTO(u))
}

// Messages.

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SendMessage")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req sendMessageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	msg, err := h.messageService.Send(ctx, principal, usecase.SendMessageInput{
		UserID:  req.UserID,
		Sender:  message.Sender(req.Sender),
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "send message failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, messageToDTO(msg))
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMessages")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	messages, err := h.messageService.ListForUser(ctx, principal, r.PathValue("userID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]messageDTO, 0, len(messages))
	for _, m := range messages {
		items = append(items, messageToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkMessageRead")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	msg, err := h.messageService.MarkRead(ctx, principal, r.PathValue("messageID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageToDTO(msg))
}
