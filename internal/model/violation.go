package model

import (
	"time"

	"github.com/google/uuid"
)

type ViolationStatus string

const (
	ViolationStatusPending   ViolationStatus = "PENDING"
	ViolationStatusPaid      ViolationStatus = "PAID"
	ViolationStatusAppealed  ViolationStatus = "APPEALED"
	ViolationStatusDismissed ViolationStatus = "DISMISSED"
)

type ViolationType string

const (
	ViolationTypeNoHelmet        ViolationType = "NO_HELMET"
	ViolationTypeTriplets        ViolationType = "TRIPLETS"
	ViolationTypeNumberPlate     ViolationType = "NUMBER_PLATE"
	ViolationTypeIllegalOverride ViolationType = "ILLEGAL_OVERRIDE"
	ViolationTypeNoSeatBelt      ViolationType = "NO_SEAT_BELT"
	ViolationTypeMobileUsage     ViolationType = "MOBILE_USAGE"
	ViolationTypeWrongParking    ViolationType = "WRONG_PARKING"
	ViolationTypeOther           ViolationType = "OTHER"
)

var knownViolationTypes = map[ViolationType]struct{}{
	ViolationTypeNoHelmet:        {},
	ViolationTypeTriplets:        {},
	ViolationTypeNumberPlate:     {},
	ViolationTypeIllegalOverride: {},
	ViolationTypeNoSeatBelt:      {},
	ViolationTypeMobileUsage:     {},
	ViolationTypeWrongParking:    {},
	ViolationTypeOther:           {},
}

func (t ViolationType) Known() bool {
	_, ok := knownViolationTypes[t]
	return ok
}

type Violation struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null" json:"owner_id"`
	Type         ViolationType   `gorm:"type:varchar(64);not null" json:"type"`
	OccurredAt   time.Time       `gorm:"not null" json:"occurred_at"`
	Location     string          `gorm:"type:text" json:"location"`
	FineAmount   int64           `gorm:"not null" json:"fine_amount"`
	LawReference string          `gorm:"type:text" json:"law_reference"`
	EvidenceURL  string          `gorm:"type:text" json:"evidence_url"`
	Status       ViolationStatus `gorm:"type:violation_status;not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Violation) TableName() string {
	return "violations"
}
