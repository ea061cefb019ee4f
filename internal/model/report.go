package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusApproved ReportStatus = "APPROVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// Report is a citizen-submitted sighting of a violation. Approving a
// report is what turns it into an actual Violation against an offender.
type Report struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReporterID uuid.UUID     `gorm:"type:uuid;not null" json:"reporter_id"`
	Type       ViolationType `gorm:"type:varchar(64);not null" json:"type"`
	Location   string        `gorm:"type:text" json:"location"`
	MediaURL   string        `gorm:"type:text;not null" json:"media_url"`
	OccurredAt time.Time     `gorm:"not null" json:"occurred_at"`
	Status     ReportStatus  `gorm:"type:report_status;not null;default:'PENDING'" json:"status"`
	DecidedBy  *uuid.UUID    `gorm:"type:uuid" json:"decided_by"`
	DecidedAt  *time.Time    `json:"decided_at"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}
