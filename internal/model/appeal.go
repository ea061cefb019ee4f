package model

import (
	"time"

	"github.com/google/uuid"
)

// Verdict is the outcome of a single review stage. Both the automated
// and the authority stage start out PENDING and resolve exactly once.
type Verdict string

const (
	VerdictPending  Verdict = "PENDING"
	VerdictAccepted Verdict = "ACCEPTED"
	VerdictRejected Verdict = "REJECTED"
)

type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "PENDING"
	AppealStatusReviewed AppealStatus = "REVIEWED"
)

type Appeal struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ViolationID         uuid.UUID    `gorm:"type:uuid;not null" json:"violation_id"`
	OwnerID             uuid.UUID    `gorm:"type:uuid;not null" json:"owner_id"`
	Reason              string       `gorm:"type:text;not null" json:"reason"`
	AutomatedVerdict    Verdict      `gorm:"type:verdict;not null;default:'PENDING'" json:"automated_verdict"`
	AuthorityVerdict    Verdict      `gorm:"type:verdict;not null;default:'PENDING'" json:"authority_verdict"`
	Status              AppealStatus `gorm:"type:appeal_status;not null;default:'PENDING'" json:"status"`
	AutomatedResolvedAt *time.Time   `json:"automated_resolved_at"`
	ResolvedAt          *time.Time   `json:"resolved_at"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	Attachments []AppealAttachment `gorm:"foreignKey:AppealID" json:"attachments,omitempty"`
	Comments    []AppealComment    `gorm:"foreignKey:AppealID" json:"comments,omitempty"`
}

func (Appeal) TableName() string {
	return "appeals"
}

// FinalVerdict derives the combined outcome of both review stages.
// Acceptance by either stage is enough to waive the fine; rejection
// requires both stages to reject.
func (a *Appeal) FinalVerdict() Verdict {
	return DeriveFinalVerdict(a.AutomatedVerdict, a.AuthorityVerdict)
}

func DeriveFinalVerdict(automated, authority Verdict) Verdict {
	switch {
	case automated == VerdictAccepted || authority == VerdictAccepted:
		return VerdictAccepted
	case automated == VerdictRejected && authority == VerdictRejected:
		return VerdictRejected
	default:
		return VerdictPending
	}
}

type AppealAttachment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	AppealID   uuid.UUID `gorm:"type:uuid;not null" json:"appeal_id"`
	FileURL    string    `gorm:"type:text;not null" json:"file_url"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AppealAttachment) TableName() string {
	return "appeal_attachments"
}

type AppealComment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	AppealID   uuid.UUID `gorm:"type:uuid;not null" json:"appeal_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	AuthorRole UserRole  `gorm:"type:varchar(32);not null" json:"author_role"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AppealComment) TableName() string {
	return "appeal_comments"
}
