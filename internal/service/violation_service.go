package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"civitrack-service/internal/model"
	"civitrack-service/internal/repository"
)

// ViolationService is the registry of violation records. It owns the
// status state machine: PENDING -> APPEALED -> {DISMISSED | PENDING},
// PENDING -> PAID, with PAID and DISMISSED terminal.
type ViolationService struct {
	violationRepo repository.ViolationRepository
	appealRepo    repository.AppealRepository
}

func NewViolationService(
	violationRepo repository.ViolationRepository,
	appealRepo repository.AppealRepository,
) *ViolationService {
	return &ViolationService{
		violationRepo: violationRepo,
		appealRepo:    appealRepo,
	}
}

type CreateViolationInput struct {
	OwnerID      uuid.UUID
	Type         model.ViolationType
	OccurredAt   time.Time
	Location     string
	FineAmount   int64
	LawReference string
	EvidenceURL  string
}

type ListViolationsOptions struct {
	OwnerID  *uuid.UUID
	Statuses []model.ViolationStatus
	Types    []model.ViolationType
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

func (s *ViolationService) Create(ctx context.Context, principal model.Principal, input CreateViolationInput) (*model.Violation, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	violation, err := s.register(ctx, input, &principal.UserID, "registered by admin")
	if err != nil {
		return nil, err
	}
	return violation, nil
}

// register validates and appends a violation record. It is shared by
// manual admin creation and report approval.
func (s *ViolationService) register(ctx context.Context, input CreateViolationInput, changedBy *uuid.UUID, note string) (*model.Violation, error) {
	if input.OwnerID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if input.FineAmount <= 0 {
		return nil, ErrInvalidInput
	}
	if !input.Type.Known() {
		return nil, ErrInvalidInput
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	violation := &model.Violation{
		OwnerID:      input.OwnerID,
		Type:         input.Type,
		OccurredAt:   occurredAt,
		Location:     input.Location,
		FineAmount:   input.FineAmount,
		LawReference: input.LawReference,
		EvidenceURL:  input.EvidenceURL,
		Status:       model.ViolationStatusPending,
	}

	if err := s.violationRepo.Create(ctx, violation); err != nil {
		return nil, err
	}

	if err := s.violationRepo.LogStatusChange(ctx, &model.ViolationStatusLog{
		ViolationID: violation.ID,
		NewStatus:   model.ViolationStatusPending,
		Note:        note,
		ChangedBy:   changedBy,
	}); err != nil {
		return nil, err
	}

	return violation, nil
}

func (s *ViolationService) List(ctx context.Context, principal model.Principal, opts ListViolationsOptions) ([]model.ViolationRecord, error) {
	filter := repository.ViolationFilter{
		OwnerID:  opts.OwnerID,
		Statuses: opts.Statuses,
		Types:    opts.Types,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}

	// Citizens only ever see their own records.
	if !principal.IsAdmin() {
		filter.OwnerID = &principal.UserID
	}

	violations, err := s.violationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(violations))
	for _, v := range violations {
		ids = append(ids, v.ID)
	}

	summaries, err := s.appealRepo.SummariesByViolationIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]model.ViolationRecord, 0, len(violations))
	for _, v := range violations {
		records = append(records, buildViolationRecord(v, summaries[v.ID]))
	}
	return records, nil
}

func (s *ViolationService) GetDetails(ctx context.Context, principal model.Principal, violationID uuid.UUID) (*model.ViolationDetails, error) {
	violation, err := s.getVisible(ctx, principal, violationID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.appealRepo.SummariesByViolationIDs(ctx, []uuid.UUID{violation.ID})
	if err != nil {
		return nil, err
	}

	appeals, err := s.appealRepo.List(ctx, repository.AppealFilter{ViolationID: &violation.ID})
	if err != nil {
		return nil, err
	}

	statusLog, err := s.violationRepo.ListStatusLog(ctx, violation.ID)
	if err != nil {
		return nil, err
	}

	return &model.ViolationDetails{
		Record:    buildViolationRecord(*violation, summaries[violation.ID]),
		Appeals:   appeals,
		StatusLog: statusLog,
	}, nil
}

// Pay settles the fine. Paying is blocked while an appeal is under
// review and once the violation reached a terminal status.
func (s *ViolationService) Pay(ctx context.Context, principal model.Principal, violationID uuid.UUID) (*model.Violation, error) {
	violation, err := s.getVisible(ctx, principal, violationID)
	if err != nil {
		return nil, err
	}
	if !principal.Owns(violation.OwnerID) {
		return nil, ErrPermissionDenied
	}

	updated, err := s.violationRepo.UpdateStatus(ctx, violation.ID,
		[]model.ViolationStatus{model.ViolationStatusPending}, model.ViolationStatusPaid)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrInvalidStatus
	}

	prev := violation.Status
	if err := s.violationRepo.LogStatusChange(ctx, &model.ViolationStatusLog{
		ViolationID: violation.ID,
		OldStatus:   &prev,
		NewStatus:   model.ViolationStatusPaid,
		Note:        "fine paid",
		ChangedBy:   &principal.UserID,
	}); err != nil {
		return nil, err
	}

	violation.Status = model.ViolationStatusPaid
	return violation, nil
}

// getVisible loads a violation and hides records the principal may not
// see behind ErrNotFound rather than leaking their existence.
func (s *ViolationService) getVisible(ctx context.Context, principal model.Principal, violationID uuid.UUID) (*model.Violation, error) {
	violation, err := s.violationRepo.GetByID(ctx, violationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsAdmin() && !principal.Owns(violation.OwnerID) {
		return nil, ErrNotFound
	}
	return violation, nil
}

func buildViolationRecord(v model.Violation, summary repository.AppealSummary) model.ViolationRecord {
	record := model.ViolationRecord{
		Violation:       v,
		HasActiveAppeal: summary.HasActive,
	}
	if summary.LastAppeal != nil {
		last := summary.LastAppeal
		record.LastAppeal = &model.AppealBrief{
			ID:               last.ID,
			Status:           last.Status,
			AutomatedVerdict: last.AutomatedVerdict,
			AuthorityVerdict: last.AuthorityVerdict,
			FinalVerdict:     last.FinalVerdict(),
			Reason:           last.Reason,
			CreatedAt:        last.CreatedAt,
		}
	}
	return record
}
