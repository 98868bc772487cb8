package postgres

import (
	"database/sql"
	"time"

	"github.com/openfpl/fantasy-platform/internal/domain/user"
)

type userTableModel struct {
	ID                  int64          `db:"id"`
	PublicID            string         `db:"public_id"`
	Role                string         `db:"role"`
	Status              string         `db:"status"`
	FirstName           string         `db:"first_name"`
	LastName            string         `db:"last_name"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	DateOfBirth         sql.NullTime   `db:"date_of_birth"`
	ReferralCode        string         `db:"referral_code"`
	ReferredByCode      sql.NullString `db:"referred_by_code"`
	ReferredPeople      []byte         `db:"referred_people"`
	LeagueIDs           []byte         `db:"league_ids"`
	BadgeIDs            []byte         `db:"badge_ids"`
	PrizeIDs            []byte         `db:"prize_ids"`
	IsVerified          bool           `db:"is_verified"`
	VerificationCode    string         `db:"verification_code"`
	CodeExpires         sql.NullTime   `db:"code_expires"`
	FailedLoginAttempts int            `db:"failed_login_attempts"`
	LastFailedLogin     sql.NullTime   `db:"last_failed_login"`
	IsLocked            bool           `db:"is_locked"`
	IsDeleted           bool           `db:"is_deleted"`
	AcceptedTerms       bool           `db:"accepted_terms"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type userInsertModel struct {
	PublicID            string         `db:"public_id"`
	Role                string         `db:"role"`
	Status              string         `db:"status"`
	FirstName           string         `db:"first_name"`
	LastName            string         `db:"last_name"`
	Email               string         `db:"email"`
	PasswordHash        string         `db:"password_hash"`
	DateOfBirth         sql.NullTime   `db:"date_of_birth"`
	ReferralCode        string         `db:"referral_code"`
	ReferredByCode      sql.NullString `db:"referred_by_code"`
	ReferredPeople      []byte         `db:"referred_people"`
	LeagueIDs           []byte         `db:"league_ids"`
	BadgeIDs            []byte         `db:"badge_ids"`
	PrizeIDs            []byte         `db:"prize_ids"`
	IsVerified          bool           `db:"is_verified"`
	VerificationCode    string         `db:"verification_code"`
	CodeExpires         sql.NullTime   `db:"code_expires"`
	FailedLoginAttempts int            `db:"failed_login_attempts"`
	LastFailedLogin     sql.NullTime   `db:"last_failed_login"`
	IsLocked            bool           `db:"is_locked"`
	IsDeleted           bool           `db:"is_deleted"`
	AcceptedTerms       bool           `db:"accepted_terms"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

const userUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    role = EXCLUDED.role,
    status = EXCLUDED.status,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    email = EXCLUDED.email,
    password_hash = EXCLUDED.password_hash,
    date_of_birth = EXCLUDED.date_of_birth,
    referral_code = EXCLUDED.referral_code,
    referred_by_code = EXCLUDED.referred_by_code,
    referred_people = EXCLUDED.referred_people,
    league_ids = EXCLUDED.league_ids,
    badge_ids = EXCLUDED.badge_ids,
    prize_ids = EXCLUDED.prize_ids,
    is_verified = EXCLUDED.is_verified,
    verification_code = EXCLUDED.verification_code,
    code_expires = EXCLUDED.code_expires,
    failed_login_attempts = EXCLUDED.failed_login_attempts,
    last_failed_login = EXCLUDED.last_failed_login,
    is_locked = EXCLUDED.is_locked,
    is_deleted = EXCLUDED.is_deleted,
    accepted_terms = EXCLUDED.accepted_terms,
    updated_at = EXCLUDED.updated_at`

func userInsertFromDomain(u user.User) (userInsertModel, error) {
	referredPeople, err := toJSONB(u.ReferredPeople)
	if err != nil {
		return userInsertModel{}, err
	}
	leagueIDs, err := toJSONB(u.LeagueIDs)
	if err != nil {
		return userInsertModel{}, err
	}
	badgeIDs, err := toJSONB(u.BadgeIDs)
	if err != nil {
		return userInsertModel{}, err
	}
	prizeIDs, err := toJSONB(u.PrizeIDs)
	if err != nil {
		return userInsertModel{}, err
	}

	return userInsertModel{
		PublicID:            u.ID,
		Role:                string(u.Role),
		Status:              string(u.Status),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		DateOfBirth:         nullTime(u.DateOfBirth),
		ReferralCode:        u.ReferralCode,
		ReferredByCode:      nullStringPtr(u.ReferredByCode),
		ReferredPeople:      referredPeople,
		LeagueIDs:           leagueIDs,
		BadgeIDs:            badgeIDs,
		PrizeIDs:            prizeIDs,
		IsVerified:          u.IsVerified,
		VerificationCode:    u.VerificationCode,
		CodeExpires:         nullTime(u.CodeExpires),
		FailedLoginAttempts: u.FailedLoginAttempts,
		LastFailedLogin:     nullTime(u.LastFailedLogin),
		IsLocked:            u.IsLocked,
		IsDeleted:           u.IsDeleted,
		AcceptedTerms:       u.AcceptedTerms,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}, nil
}

func userFromRow(row userTableModel) (user.User, error) {
	u := user.User{
		ID:                  row.PublicID,
		Role:                user.Role(row.Role),
		Status:              user.Status(row.Status),
		FirstName:           row.FirstName,
		LastName:            row.LastName,
		Email:               row.Email,
		PasswordHash:        row.PasswordHash,
		DateOfBirth:         row.DateOfBirth.Time,
		ReferralCode:        row.ReferralCode,
		IsVerified:          row.IsVerified,
		VerificationCode:    row.VerificationCode,
		CodeExpires:         row.CodeExpires.Time,
		FailedLoginAttempts: row.FailedLoginAttempts,
		LastFailedLogin:     row.LastFailedLogin.Time,
		IsLocked:            row.IsLocked,
		IsDeleted:           row.IsDeleted,
		AcceptedTerms:       row.AcceptedTerms,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
	if row.ReferredByCode.Valid {
		code := row.ReferredByCode.String
		u.ReferredByCode = &code
	}

	if err := fromJSONB(row.ReferredPeople, &u.ReferredPeople); err != nil {
		return user.User{}, err
	}
	if err := fromJSONB(row.LeagueIDs, &u.LeagueIDs); err != nil {
		return user.User{}, err
	}
	if err := fromJSONB(row.BadgeIDs, &u.BadgeIDs); err != nil {
		return user.User{}, err
	}
	if err := fromJSONB(row.PrizeIDs, &u.PrizeIDs); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
