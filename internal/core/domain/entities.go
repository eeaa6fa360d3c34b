package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// User represents a federation member in the domain layer
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // Hashed
	Role      Role
	ClubID    *uint
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Club represents a robotics club
type Club struct {
	ID            uint
	Name          string
	City          string
	OwnerID       uint
	CategoryFocus string // empty = generalist
	MaxMembers    int
	MemberCount   int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AvailableSlots returns how many members the club can still take.
func (c *Club) AvailableSlots() int {
	slots := c.MaxMembers - c.MemberCount
	if slots < 0 {
		return 0
	}
	return slots
}

// ClubMember is a membership snapshot entry: one user and the number
// of robots they own at snapshot time.
type ClubMember struct {
	UserID     uint
	RobotCount int
}

// ClubCapacity is the capacity view of a club consumed by the
// reallocation matcher and the transfer coordinator.
type ClubCapacity struct {
	ClubID         uint
	Active         bool
	CategoryFocus  string
	AvailableSlots int
}

// RefreshToken represents a refresh token in the domain
type RefreshToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
