package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'USER'" json:"role"`
	ClubID    *uint          `gorm:"index" json:"club_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Club *Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ClubID    *uint     `json:"club_id"`
	ClubName  string    `json:"club_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		ClubID:    u.ClubID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Club != nil {
		resp.ClubName = u.Club.Name
	}
	return resp
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Federation Tables
// ============================================================

// Club represents clubs table
type Club struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	City          string         `gorm:"size:100" json:"city"`
	OwnerID       uint           `gorm:"not null" json:"owner_id"`
	CategoryFocus string         `gorm:"size:30" json:"category_focus"`
	MaxMembers    int            `gorm:"not null;default:30" json:"max_members"`
	MemberCount   int            `gorm:"not null;default:0" json:"member_count"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Club) TableName() string {
	return "clubs"
}

// AvailableSlots returns remaining capacity, never negative.
func (c *Club) AvailableSlots() int {
	slots := c.MaxMembers - c.MemberCount
	if slots < 0 {
		return 0
	}
	return slots
}

// ClubResponse DTO
type ClubResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	City           string    `json:"city"`
	OwnerID        uint      `json:"owner_id"`
	OwnerName      string    `json:"owner_name,omitempty"`
	CategoryFocus  string    `json:"category_focus"`
	MaxMembers     int       `json:"max_members"`
	MemberCount    int       `json:"member_count"`
	AvailableSlots int       `json:"available_slots"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (c *Club) ToResponse() *ClubResponse {
	resp := &ClubResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		City:           c.City,
		OwnerID:        c.OwnerID,
		CategoryFocus:  c.CategoryFocus,
		MaxMembers:     c.MaxMembers,
		MemberCount:    c.MemberCount,
		AvailableSlots: c.AvailableSlots(),
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
	if c.Owner != nil {
		resp.OwnerName = c.Owner.Username
	}
	return resp
}

// RobotCategory is the competition category master table
type RobotCategory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RobotCategory) TableName() string {
	return "robot_categories"
}

// Robot statuses
const (
	RobotStatusActive          = "ACTIVO"
	RobotStatusPendingApproval = "PENDIENTE_APROBACION"
)

// Robot represents robots table. A robot belongs to its owner, not to
// a club; it follows the owner on any club move.
type Robot struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	OwnerID    uint           `gorm:"not null;index" json:"owner_id"`
	CategoryID uint           `gorm:"not null" json:"category_id"`
	Status     string         `gorm:"size:30;not null;default:'ACTIVO'" json:"status"`
	WeightKg   float64        `gorm:"type:decimal(6,2)" json:"weight_kg"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Owner    *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Category *RobotCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Robot) TableName() string {
	return "robots"
}

// RobotResponse DTO
type RobotResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	OwnerID      uint      `json:"owner_id"`
	OwnerName    string    `json:"owner_name,omitempty"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Status       string    `json:"status"`
	WeightKg     float64   `json:"weight_kg"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *Robot) ToResponse() *RobotResponse {
	resp := &RobotResponse{
		ID:         r.ID,
		Name:       r.Name,
		OwnerID:    r.OwnerID,
		CategoryID: r.CategoryID,
		Status:     r.Status,
		WeightKg:   r.WeightKg,
		CreatedAt:  r.CreatedAt,
	}
	if r.Owner != nil {
		resp.OwnerName = r.Owner.Username
	}
	if r.Category != nil {
		resp.CategoryName = r.Category.Name
	}
	return resp
}

// Tournament statuses
const (
	TournamentStatusScheduled = "PROGRAMADO"
	TournamentStatusFinished  = "FINALIZADO"
)

// Tournament represents tournaments table
type Tournament struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:150;not null" json:"name"`
	City       string         `gorm:"size:100" json:"city"`
	CategoryID uint           `gorm:"not null" json:"category_id"`
	StartsAt   time.Time      `gorm:"not null" json:"starts_at"`
	Status     string         `gorm:"size:20;not null;default:'PROGRAMADO'" json:"status"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Category *RobotCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

// Match represents match history between two robots in a tournament
type Match struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TournamentID uint      `gorm:"not null;index" json:"tournament_id"`
	Round        int       `gorm:"not null;default:1" json:"round"`
	RobotAID     uint      `gorm:"not null" json:"robot_a_id"`
	RobotBID     uint      `gorm:"not null" json:"robot_b_id"`
	WinnerID     *uint     `json:"winner_id"` // nil = draw
	ScoreA       int       `gorm:"not null;default:0" json:"score_a"`
	ScoreB       int       `gorm:"not null;default:0" json:"score_b"`
	PlayedAt     time.Time `gorm:"not null" json:"played_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Tournament *Tournament `gorm:"foreignKey:TournamentID" json:"tournament,omitempty"`
	RobotA     *Robot      `gorm:"foreignKey:RobotAID" json:"robot_a,omitempty"`
	RobotB     *Robot      `gorm:"foreignKey:RobotBID" json:"robot_b,omitempty"`
}

func (Match) TableName() string {
	return "matches"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Federation
		&Club{},
		&RobotCategory{},
		&Robot{},
		&Tournament{},
		&Match{},
		// Membership lifecycle
		&ClubDisablement{},
		&AffectedMember{},
		&TransferRequest{},
	)
}
