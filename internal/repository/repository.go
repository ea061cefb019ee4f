package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"civitrack-service/internal/model"
)

// ErrNotFound is returned by every implementation when a record does
// not exist, so services never depend on driver-specific errors.
var ErrNotFound = errors.New("record not found")

// defaultListLimit caps unbounded List calls identically in every
// driver.
const defaultListLimit = 200

type ViolationFilter struct {
	OwnerID  *uuid.UUID
	Statuses []model.ViolationStatus
	Types    []model.ViolationType
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type AppealFilter struct {
	OwnerID     *uuid.UUID
	ViolationID *uuid.UUID
	Statuses    []model.AppealStatus
	Limit       int
	Offset      int
}

type ReportFilter struct {
	ReporterID *uuid.UUID
	Statuses   []model.ReportStatus
	Limit      int
	Offset     int
}

type ViolationRepository interface {
	Create(ctx context.Context, violation *model.Violation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error)
	// List returns violations in insertion order.
	List(ctx context.Context, filter ViolationFilter) ([]model.Violation, error)
	// UpdateStatus moves the violation to the target status only when its
	// current status is one of from; it reports whether a row changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []model.ViolationStatus, to model.ViolationStatus) (bool, error)
	LogStatusChange(ctx context.Context, entry *model.ViolationStatusLog) error
	ListStatusLog(ctx context.Context, violationID uuid.UUID) ([]model.ViolationStatusLog, error)
}

type AppealRepository interface {
	Create(ctx context.Context, appeal *model.Appeal, attachments []model.AppealAttachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appeal, error)
	List(ctx context.Context, filter AppealFilter) ([]model.Appeal, error)
	// GetActiveByViolation returns the appeal still awaiting review for
	// the violation, or ErrNotFound when none is active.
	GetActiveByViolation(ctx context.Context, violationID uuid.UUID) (*model.Appeal, error)
	// ResolveAutomated writes the first-stage verdict. It only succeeds
	// while the stored verdict is still PENDING, so a verdict resolves at
	// most once no matter how callbacks interleave.
	ResolveAutomated(ctx context.Context, id uuid.UUID, verdict model.Verdict, at time.Time) (bool, error)
	// ResolveAuthority writes the second-stage verdict and flips the
	// appeal to REVIEWED, under the same resolve-once guard.
	ResolveAuthority(ctx context.Context, id uuid.UUID, verdict model.Verdict, at time.Time) (bool, error)
	AddComment(ctx context.Context, comment *model.AppealComment) error
	LogStatusChange(ctx context.Context, entry *model.AppealStatusLog) error
	// SummariesByViolationIDs returns, per violation, its most recent
	// appeal and whether an appeal is still awaiting review.
	SummariesByViolationIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]AppealSummary, error)
}

type AppealSummary struct {
	LastAppeal *model.Appeal
	HasActive  bool
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]model.Report, error)
	// Decide moves a PENDING report to its final status; it reports
	// whether the row changed.
	Decide(ctx context.Context, id uuid.UUID, status model.ReportStatus, decidedBy uuid.UUID, at time.Time) (bool, error)
}
