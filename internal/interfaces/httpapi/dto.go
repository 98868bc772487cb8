package httpapi

import (
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/league"
	"github.com/openfpl/fantasy-platform/internal/domain/message"
	"github.com/openfpl/fantasy-platform/internal/domain/reward"
	"github.com/openfpl/fantasy-platform/internal/domain/user"
	"github.com/openfpl/fantasy-platform/internal/domain/userleague"
	"github.com/openfpl/fantasy-platform/internal/usecase"
)

// Request DTOs. Validation tags run through go-playground/validator before
// any use case is touched.

type createTeamRequest struct {
	GameweekNumber int      `json:"gameweekNumber" validate:"required,gt=0"`
	PlayerIDs      []string `json:"playerIds" validate:"required,len=11,dive,required"`
	Captain        string   `json:"captain" validate:"required"`
	ViceCaptain    string   `json:"viceCaptain" validate:"required"`
	Budget         int64    `json:"budget" validate:"omitempty,gte=0"`
}

type setUserRefsRequest struct {
	LeagueIDs *[]string `json:"leagueIds"`
	BadgeIDs  *[]string `json:"badgeIds"`
	PrizeIDs  *[]string `json:"prizeIds"`
}

type idListRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type badgeUpsertRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Condition   string   `json:"condition" validate:"omitempty,max=500"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	UserIDs     []string `json:"userIds" validate:"omitempty,dive,required"`
	LeagueIDs   []string `json:"leagueIds" validate:"omitempty,dive,required"`
}

type prizeUpsertRequest struct {
	Title       string           `json:"title" validate:"required,max=100"`
	Description string           `json:"description" validate:"omitempty,max=500"`
	Reward      string           `json:"reward" validate:"omitempty,max=500"`
	Condition   string           `json:"condition" validate:"omitempty,max=500"`
	RankRange   reward.RankRange `json:"rankRange"`
	UserIDs     []string         `json:"userIds" validate:"omitempty,dive,required"`
	LeagueIDs   []string         `json:"leagueIds" validate:"omitempty,dive,required"`
}

type boosterUpsertRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Effect      string   `json:"effect" validate:"omitempty,max=500"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
	LeagueIDs   []string `json:"leagueIds" validate:"omitempty,dive,required"`
}

type sendMessageRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Sender  string `json:"sender" validate:"required,oneof=user admin"`
	Subject string `json:"subject" validate:"required,max=200"`
	Body    string `json:"body" validate:"required,max=5000"`
}

type setWinnersRequest struct {
	WinnerIDs []string `json:"winnerIds" validate:"required,dive,required"`
}

// Response DTOs.

type userDTO struct {
	ID             string    `json:"id"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	DateOfBirth    time.Time `json:"dateOfBirth"`
	ReferralCode   string    `json:"referralCode"`
	ReferredByCode *string   `json:"referredByCode,omitempty"`
	ReferredPeople []string  `json:"referredPeople"`
	LeagueIDs      []string  `json:"leagueIds"`
	BadgeIDs       []string  `json:"badgeIds"`
	PrizeIDs       []string  `json:"prizeIds"`
	IsVerified     bool      `json:"isVerified"`
	IsLocked       bool      `json:"isLocked"`
	IsDeleted      bool      `json:"isDeleted"`
	AcceptedTerms  bool      `json:"acceptedTerms"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{
		ID:             u.ID,
		Role:           string(u.Role),
		Status:         string(u.Status),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		DateOfBirth:    u.DateOfBirth,
		ReferralCode:   u.ReferralCode,
		ReferredByCode: u.ReferredByCode,
		ReferredPeople: emptyIfNil(u.ReferredPeople),
		LeagueIDs:      emptyIfNil(u.LeagueIDs),
		BadgeIDs:       emptyIfNil(u.BadgeIDs),
		PrizeIDs:       emptyIfNil(u.PrizeIDs),
		IsVerified:     u.IsVerified,
		IsLocked:       u.IsLocked,
		IsDeleted:      u.IsDeleted,
		AcceptedTerms:  u.AcceptedTerms,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

type gameweekWindowDTO struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// leagueDTO deliberately omits the provider API key.
type leagueDTO struct {
	ID            string              `json:"id"`
	LeagueID      string              `json:"leagueId"`
	Name          string              `json:"name"`
	Type          string              `json:"type"`
	Status        string              `json:"status"`
	Country       league.Country      `json:"country"`
	Season        string              `json:"season"`
	TransferLimit int                 `json:"transferLimit"`
	StartDate     time.Time           `json:"startDate"`
	EndDate       time.Time           `json:"endDate"`
	Timezone      string              `json:"timezone"`
	Description   string              `json:"description"`
	EntryPrice    int64               `json:"entryPrice"`
	EntryDeadline time.Time           `json:"entryDeadline"`
	LastSyncTime  time.Time           `json:"lastSyncTime"`
	SyncFrequency string              `json:"syncFrequency"`
	GameWeeks     []gameweekWindowDTO `json:"gameWeeks"`
	PlayerIDs     []string            `json:"playerIds"`
	ClubIDs       []string            `json:"clubIds"`
	UserIDs       []string            `json:"userIds"`
	WinnerIDs     []string            `json:"winnerIds"`
	BadgeIDs      []string            `json:"badgeIds"`
	PrizeIDs      []string            `json:"prizeIds"`
	BoosterIDs    []string            `json:"boosterIds"`
}

func leagueToDTO(l league.League) leagueDTO {
	windows := make([]gameweekWindowDTO, 0, len(l.GameWeeks))
	for _, gw := range l.GameWeeks {
		windows = append(windows, gameweekWindowDTO{StartDate: gw.StartDate, EndDate: gw.EndDate})
	}

	return leagueDTO{
		ID:            l.ID,
		LeagueID:      l.LeagueID,
		Name:          l.Name,
		Type:          string(l.Type),
		Status:        string(l.Status),
		Country:       l.Country,
		Season:        l.Season,
		TransferLimit: l.TransferLimit,
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		Timezone:      l.Timezone,
		Description:   l.Description,
		EntryPrice:    l.EntryPrice,
		EntryDeadline: l.EntryDeadline,
		LastSyncTime:  l.LastSyncTime,
		SyncFrequency: l.SyncFrequency,
		GameWeeks:     windows,
		PlayerIDs:     emptyIfNil(l.PlayerIDs),
		ClubIDs:       emptyIfNil(l.ClubIDs),
		UserIDs:       emptyIfNil(l.UserIDs),
		WinnerIDs:     emptyIfNil(l.WinnerIDs),
		BadgeIDs:      emptyIfNil(l.BadgeIDs),
		PrizeIDs:      emptyIfNil(l.PrizeIDs),
		BoosterIDs:    emptyIfNil(l.BoosterIDs),
	}
}

type infoDTO struct {
	UserID          string                     `json:"userId"`
	LeagueID        string                     `json:"leagueId"`
	TeamName        string                     `json:"teamName"`
	TeamLogo        string                     `json:"teamLogo"`
	CurrentPoints   int                        `json:"currentPoints"`
	CurrentRank     *int                       `json:"currentRank"`
	Activity        int                        `json:"activity"`
	IsActive        bool                       `json:"isActive"`
	JoinedAt        time.Time                  `json:"joinedAt"`
	LastUpdated     time.Time                  `json:"lastUpdated"`
	LastActiveAt    time.Time                  `json:"lastActiveAt"`
	HeadToHeadStats userleague.HeadToHeadStats `json:"headToHeadStats"`
	Notifications   []userleague.Notification  `json:"notifications"`
	GameWeeks       []*userleague.GameWeek     `json:"gameWeeks"`
}

func infoToDTO(info userleague.Info) infoDTO {
	notifications := info.Notifications
	if notifications == nil {
		notifications = []userleague.Notification{}
	}
	gameWeeks := info.GameWeeks
	if gameWeeks == nil {
		gameWeeks = []*userleague.GameWeek{}
	}

	return infoDTO{
		UserID:          info.UserID,
		LeagueID:        info.LeagueID,
		TeamName:        info.TeamName,
		TeamLogo:        info.TeamLogo,
		CurrentPoints:   info.CurrentPoints,
		CurrentRank:     info.CurrentRank,
		Activity:        info.Activity,
		IsActive:        info.IsActive,
		JoinedAt:        info.JoinedAt,
		LastUpdated:     info.LastUpdated,
		LastActiveAt:    info.LastActiveAt,
		HeadToHeadStats: info.HeadToHeadStats,
		Notifications:   notifications,
		GameWeeks:       gameWeeks,
	}
}

type aggregateViewDTO struct {
	infoDTO
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	LeagueName string `json:"leagueName"`
}

func aggregateViewToDTO(view usecase.AggregateView) aggregateViewDTO {
	return aggregateViewDTO{
		infoDTO:    infoToDTO(view.Info),
		UserName:   view.UserName,
		UserEmail:  view.UserEmail,
		LeagueName: view.LeagueName,
	}
}

type badgeDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Condition   string    `json:"condition"`
	Tags        []string  `json:"tags"`
	UserIDs     []string  `json:"userIds"`
	LeagueIDs   []string  `json:"leagueIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func badgeToDTO(b reward.Badge) badgeDTO {
	return badgeDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Condition:   b.Condition,
		Tags:        emptyIfNil(b.Tags),
		UserIDs:     emptyIfNil(b.UserIDs),
		LeagueIDs:   emptyIfNil(b.LeagueIDs),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type prizeDTO struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Reward      string           `json:"reward"`
	Condition   string           `json:"condition"`
	RankRange   reward.RankRange `json:"rankRange"`
	UserIDs     []string         `json:"userIds"`
	LeagueIDs   []string         `json:"leagueIds"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func prizeToDTO(p reward.Prize) prizeDTO {
	return prizeDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Reward:      p.Reward,
		Condition:   p.Condition,
		RankRange:   p.RankRange,
		UserIDs:     emptyIfNil(p.PlayerIDs),
		LeagueIDs:   emptyIfNil(p.LeagueIDs),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type boosterDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Effect      string    `json:"effect"`
	Tags        []string  `json:"tags"`
	LeagueIDs   []string  `json:"leagueIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func boosterToDTO(b reward.Booster) boosterDTO {
	return boosterDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Effect:      b.Effect,
		Tags:        emptyIfNil(b.Tags),
		LeagueIDs:   emptyIfNil(b.LeagueIDs),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type messageDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func messageToDTO(m message.Message) messageDTO {
	return messageDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Sender:    string(m.Sender),
		Subject:   m.Subject,
		Body:      m.Body,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
