package auth

import "time"

// Role is the tagged variant a user account holds. The store keeps it as an
// is_coach flag; everything above the store works with Role.
type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
)

func RoleOf(isCoach bool) Role {
	if isCoach {
		return RoleCoach
	}
	return RoleAthlete
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAthlete, RoleCoach:
		return Role(s), true
	}
	return "", false
}

func (r Role) IsCoach() bool { return r == RoleCoach }

// Principal is the authenticated caller.
type Principal struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsCoach   bool   `json:"is_coach"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
