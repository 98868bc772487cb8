package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/badges", handler.ListBadges)
	mux.HandleFunc("GET /v1/prizes", handler.ListPrizes)
	mux.HandleFunc("GET /v1/boosters", handler.ListBoosters)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues/{leagueID}/members/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/members/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.LeaveLeague)))
	mux.Handle("GET /v1/users/{userID}/leagues/{leagueID}/aggregate", RequireAuth(verifier, http.HandlerFunc(handler.GetAggregate)))
	mux.Handle("PATCH /v1/users/{userID}/leagues/{leagueID}/aggregate", RequireAuth(verifier, http.HandlerFunc(handler.PatchAggregate)))
	mux.Handle("POST /v1/users/{userID}/leagues/{leagueID}/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/users/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.GetUser)))
	mux.Handle("POST /v1/messages", RequireAuth(verifier, http.HandlerFunc(handler.SendMessage)))
	mux.Handle("GET /v1/users/{userID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.ListMessages)))
	mux.Handle("POST /v1/messages/{messageID}/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkMessageRead)))
}

// Admin routes carry RequireAuth only; the super-admin check lives in the
// use cases so direct service callers get the same policy.
func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/admin/users", RequireAuth(verifier, http.HandlerFunc(handler.ListUsers)))
	mux.Handle("DELETE /v1/admin/users/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteUser)))
	mux.Handle("POST /v1/admin/users/{userID}/suspend", RequireAuth(verifier, http.HandlerFunc(handler.SuspendUser)))
	mux.Handle("POST /v1/admin/users/{userID}/activate", RequireAuth(verifier, http.HandlerFunc(handler.ActivateUser)))
	mux.Handle("PUT /v1/admin/users/{userID}/refs", RequireAuth(verifier, http.HandlerFunc(handler.SetUserRefs)))
	mux.Handle("PUT /v1/admin/users/{userID}/leagues", RequireAuth(verifier, http.HandlerFunc(handler.SetUserLeagues)))
	mux.Handle("PUT /v1/admin/users/{userID}/badges", RequireAuth(verifier, http.HandlerFunc(handler.SetUserBadges)))
	mux.Handle("PUT /v1/admin/users/{userID}/prizes", RequireAuth(verifier, http.HandlerFunc(handler.SetUserPrizes)))
	mux.Handle("POST /v1/admin/badges", RequireAuth(verifier, http.HandlerFunc(handler.CreateBadge)))
	mux.Handle("PUT /v1/admin/badges/{badgeID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateBadge)))
	mux.Handle("DELETE /v1/admin/badges/{badgeID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteBadge)))
	mux.Handle("POST /v1/admin/prizes", RequireAuth(verifier, http.HandlerFunc(handler.CreatePrize)))
	mux.Handle("PUT /v1/admin/prizes/{prizeID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePrize)))
	mux.Handle("DELETE /v1/admin/prizes/{prizeID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePrize)))
	mux.Handle("POST /v1/admin/boosters", RequireAuth(verifier, http.HandlerFunc(handler.CreateBooster)))
	mux.Handle("PUT /v1/admin/boosters/{boosterID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateBooster)))
	mux.Handle("DELETE /v1/admin/boosters/{boosterID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteBooster)))
	mux.Handle("PUT /v1/admin/leagues/{leagueID}/winners", RequireAuth(verifier, http.HandlerFunc(handler.SetLeagueWinners)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-snapshots", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SyncSnapshots)))
	mux.Handle("POST /v1/internal/jobs/recompute-ranks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecomputeRanks)))
}
