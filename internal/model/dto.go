package model

import (
	"time"

	"github.com/google/uuid"
)

type AppealBrief struct {
	ID               uuid.UUID    `json:"id"`
	Status           AppealStatus `json:"status"`
	AutomatedVerdict Verdict      `json:"automated_verdict"`
	AuthorityVerdict Verdict      `json:"authority_verdict"`
	FinalVerdict     Verdict      `json:"final_verdict"`
	Reason           string       `json:"reason"`
	CreatedAt        time.Time    `json:"created_at"`
}

type ViolationRecord struct {
	Violation       Violation    `json:"violation"`
	LastAppeal      *AppealBrief `json:"last_appeal"`
	HasActiveAppeal bool         `json:"has_active_appeal"`
}

type ViolationDetails struct {
	Record    ViolationRecord      `json:"record"`
	Appeals   []Appeal             `json:"appeals"`
	StatusLog []ViolationStatusLog `json:"status_log"`
}

type AppealRecord struct {
	Appeal       Appeal  `json:"appeal"`
	FinalVerdict Verdict `json:"final_verdict"`
}
