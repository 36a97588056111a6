package models

import (
	"time"
)

// Moderation report statuses.
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Moderation report target types. TargetPost and TargetComment are shared
// with the vote ledger; ReportTargetUser covers user-level reports.
const ReportTargetUser = "user"

// ModerationReport is an entry in the moderation queue. Reports created by
// the auto-flagger are self-referential: reporter and reported user are both
// the content's author, and the reason embeds the classifier severity.
type ModerationReport struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ReporterID     uint       `gorm:"not null;index" json:"reporter_id"`
	Reporter       User       `gorm:"foreignKey:ReporterID" json:"reporter"`
	ReportedUserID *uint      `gorm:"index" json:"reported_user_id,omitempty"`
	ReportedUser   *User      `gorm:"foreignKey:ReportedUserID" json:"reported_user,omitempty"`
	TargetType     string     `gorm:"size:20;not null;index" json:"target_type"`
	TargetID       uint       `gorm:"not null;index" json:"target_id"`
	Reason         string     `gorm:"size:200;not null" json:"reason"`
	Details        string     `gorm:"type:text" json:"details"`
	Status         string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ResolvedByID   *uint      `json:"resolved_by_id,omitempty"`
	ResolvedBy     *User      `gorm:"foreignKey:ResolvedByID" json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote string     `gorm:"size:500" json:"resolution_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
