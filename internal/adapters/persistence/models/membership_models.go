package models

import (
	"time"
)

// ============================================================
// Club Membership Lifecycle Tables
// ============================================================

// ClubDisablement statuses
const (
	DisablementStatusPending    = "PENDIENTE"
	DisablementStatusProcessing = "PROCESANDO"
	DisablementStatusCompleted  = "COMPLETADA"
	DisablementStatusCancelled  = "CANCELADA"
)

// AffectedMember statuses. Transitions only move forward:
// PENDIENTE → TRANSFERIDO | DEGRADADO.
const (
	AffectedStatusPending     = "PENDIENTE"
	AffectedStatusTransferred = "TRANSFERIDO"
	AffectedStatusDegraded    = "DEGRADADO"
)

// TransferRequest statuses
const (
	TransferStatusPendingExit  = "PENDIENTE_SALIDA"
	TransferStatusPendingEntry = "PENDIENTE_INGRESO"
	TransferStatusApproved     = "APROBADA"
	TransferStatusRejected     = "RECHAZADA"
)

// ClubDisablement represents one administrative club-shutdown attempt.
// Rows are never deleted; they are the audit trail.
type ClubDisablement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Folio       string     `gorm:"size:36;uniqueIndex;not null" json:"folio"`
	ClubID      uint       `gorm:"not null;index" json:"club_id"`
	InitiatedBy uint       `gorm:"not null" json:"initiated_by"`
	Reason      string     `gorm:"type:text" json:"reason"`
	Status      string     `gorm:"size:20;not null;default:'PENDIENTE';index" json:"status"`
	Deadline    time.Time  `gorm:"not null" json:"deadline"`
	CompletedAt *time.Time `json:"completed_at"`

	// Counters re-derived from the affected_members rows after every
	// pass; total = reallocated + degraded + pending.
	TotalMembers int `gorm:"not null;default:0" json:"total_members"`
	Reallocated  int `gorm:"not null;default:0" json:"reallocated"`
	Degraded     int `gorm:"not null;default:0" json:"degraded"`
	Pending      int `gorm:"not null;default:0" json:"pending"`

	NotifySent bool      `gorm:"default:false" json:"notify_sent"`
	Notes      string    `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Club      *Club            `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Initiator *User            `gorm:"foreignKey:InitiatedBy" json:"initiator,omitempty"`
	Members   []AffectedMember `gorm:"foreignKey:DisablementID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

func (ClubDisablement) TableName() string {
	return "club_disablements"
}

// IsActive reports whether the record still represents a running
// workflow (PENDIENTE or PROCESANDO).
func (d *ClubDisablement) IsActive() bool {
	return d.Status == DisablementStatusPending || d.Status == DisablementStatusProcessing
}

// IsExpired reports whether the action deadline has lapsed.
func (d *ClubDisablement) IsExpired(now time.Time) bool {
	return now.After(d.Deadline)
}

// ClubDisablementResponse DTO
type ClubDisablementResponse struct {
	ID           uint                     `json:"id"`
	Folio        string                   `json:"folio"`
	ClubID       uint                     `json:"club_id"`
	ClubName     string                   `json:"club_name,omitempty"`
	InitiatedBy  uint                     `json:"initiated_by"`
	Reason       string                   `json:"reason"`
	Status       string                   `json:"status"`
	Deadline     time.Time                `json:"deadline"`
	CompletedAt  *time.Time               `json:"completed_at"`
	TotalMembers int                      `json:"total_members"`
	Reallocated  int                      `json:"reallocated"`
	Degraded     int                      `json:"degraded"`
	Pending      int                      `json:"pending"`
	Notes        string                   `json:"notes,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	Members      []AffectedMemberResponse `json:"members,omitempty"`
}

func (d *ClubDisablement) ToResponse() *ClubDisablementResponse {
	resp := &ClubDisablementResponse{
		ID:           d.ID,
		Folio:        d.Folio,
		ClubID:       d.ClubID,
		InitiatedBy:  d.InitiatedBy,
		Reason:       d.Reason,
		Status:       d.Status,
		Deadline:     d.Deadline,
		CompletedAt:  d.CompletedAt,
		TotalMembers: d.TotalMembers,
		Reallocated:  d.Reallocated,
		Degraded:     d.Degraded,
		Pending:      d.Pending,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
	if d.Club != nil {
		resp.ClubName = d.Club.Name
	}
	for i := range d.Members {
		resp.Members = append(resp.Members, *d.Members[i].ToResponse())
	}
	return resp
}

// AffectedMember is one member caught in a disablement. Owned by its
// parent ClubDisablement (cascade delete), never shared.
type AffectedMember struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	DisablementID uint      `gorm:"not null;index" json:"disablement_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	RobotCount    int       `gorm:"not null;default:0" json:"robot_count"`
	Status        string    `gorm:"size:20;not null;default:'PENDIENTE'" json:"status"`
	DestClubID    *uint     `json:"dest_club_id"` // set only when TRANSFERIDO
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DestClub *Club `gorm:"foreignKey:DestClubID" json:"dest_club,omitempty"`
}

func (AffectedMember) TableName() string {
	return "affected_members"
}

// AffectedMemberResponse DTO
type AffectedMemberResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username,omitempty"`
	RobotCount int        `json:"robot_count"`
	Status     string     `json:"status"`
	DestClubID *uint      `json:"dest_club_id"`
	ResolvedAt *time.Time `json:"resolved_at"`
}

func (m *AffectedMember) ToResponse() *AffectedMemberResponse {
	resp := &AffectedMemberResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		RobotCount: m.RobotCount,
		Status:     m.Status,
		DestClubID: m.DestClubID,
		ResolvedAt: m.ResolvedAt,
	}
	if m.User != nil {
		resp.Username = m.User.Username
	}
	return resp
}

// TransferRequest represents one voluntary member move between clubs.
// Rows are never deleted; they are the audit trail.
type TransferRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	OriginClubID    uint       `gorm:"not null;index" json:"origin_club_id"`
	DestClubID      uint       `gorm:"not null;index" json:"dest_club_id"`
	Status          string     `gorm:"size:20;not null;default:'PENDIENTE_SALIDA';index" json:"status"`
	Message         string     `gorm:"type:text" json:"message"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`
	RequestedAt     time.Time  `gorm:"not null" json:"requested_at"`
	ExitApprovedAt  *time.Time `json:"exit_approved_at"`
	ExitApprovedBy  string     `gorm:"size:50" json:"exit_approved_by"`
	EntryApprovedAt *time.Time `json:"entry_approved_at"`
	EntryApprovedBy string     `gorm:"size:50" json:"entry_approved_by"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectedBy      string     `gorm:"size:50" json:"rejected_by"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User       *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OriginClub *Club `gorm:"foreignKey:OriginClubID" json:"origin_club,omitempty"`
	DestClub   *Club `gorm:"foreignKey:DestClubID" json:"dest_club,omitempty"`
}

func (TransferRequest) TableName() string {
	return "transfer_requests"
}

// IsTerminal reports whether the request reached APROBADA or RECHAZADA.
func (t *TransferRequest) IsTerminal() bool {
	return t.Status == TransferStatusApproved || t.Status == TransferStatusRejected
}

// TransferRequestResponse DTO
type TransferRequestResponse struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	Username        string     `json:"username,omitempty"`
	OriginClubID    uint       `json:"origin_club_id"`
	OriginClubName  string     `json:"origin_club_name,omitempty"`
	DestClubID      uint       `json:"dest_club_id"`
	DestClubName    string     `json:"dest_club_name,omitempty"`
	Status          string     `json:"status"`
	Message         string     `json:"message,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	RequestedAt     time.Time  `json:"requested_at"`
	ExitApprovedAt  *time.Time `json:"exit_approved_at"`
	ExitApprovedBy  string     `json:"exit_approved_by,omitempty"`
	EntryApprovedAt *time.Time `json:"entry_approved_at"`
	EntryApprovedBy string     `json:"entry_approved_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
}

func (t *TransferRequest) ToResponse() *TransferRequestResponse {
	resp := &TransferRequestResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		OriginClubID:    t.OriginClubID,
		DestClubID:      t.DestClubID,
		Status:          t.Status,
		Message:         t.Message,
		RejectionReason: t.RejectionReason,
		RequestedAt:     t.RequestedAt,
		ExitApprovedAt:  t.ExitApprovedAt,
		ExitApprovedBy:  t.ExitApprovedBy,
		EntryApprovedAt: t.EntryApprovedAt,
		EntryApprovedBy: t.EntryApprovedBy,
		RejectedAt:      t.RejectedAt,
		RejectedBy:      t.RejectedBy,
	}
	if t.User != nil {
		resp.Username = t.User.Username
	}
	if t.OriginClub != nil {
		resp.OriginClubName = t.OriginClub.Name
	}
	if t.DestClub != nil {
		resp.DestClubName = t.DestClub.Name
	}
	return resp
}
