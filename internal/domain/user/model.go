package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleRegistered Role = "registered"
	RolePremium    Role = "premium"
	RoleSuperAdmin Role = "super-admin"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusSuspended   Status = "suspended"
	StatusDeactivated Status = "deactivated"
)

// User is a platform account. League, badge and prize memberships carry
// forward references that the membership coordinator keeps mirrored on the
// owning entities.
type User struct {
	ID                  string
	Role                Role
	Status              Status
	FirstName           string
	LastName            string
	Email               string
	PasswordHash        string
	DateOfBirth         time.Time
	ReferralCode        string
	ReferredByCode      *string
	ReferredPeople      []string
	LeagueIDs           []string
	BadgeIDs            []string
	PrizeIDs            []string
	IsVerified          bool
	VerificationCode    string
	CodeExpires         time.Time
	FailedLoginAttempts int
	LastFailedLogin     time.Time
	IsLocked            bool
	IsDeleted           bool
	AcceptedTerms       bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	switch u.Role {
	case RoleRegistered, RolePremium, RoleSuperAdmin:
	default:
		return fmt.Errorf("unknown user role %q", u.Role)
	}

	return nil
}

func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Principal is the authenticated caller identity supplied by the account
// service.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// CanActFor reports whether the principal may operate on userID's resources.
func (p Principal) CanActFor(userID string) bool {
	return p.UserID == userID || p.IsSuperAdmin()
}
