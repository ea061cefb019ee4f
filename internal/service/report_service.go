package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"civitrack-service/internal/model"
	"civitrack-service/internal/repository"
)

// ReportService handles citizen-submitted violation reports. Approving
// a report registers a violation against the named offender.
type ReportService struct {
	reportRepo repository.ReportRepository
	violations *ViolationService
}

func NewReportService(reportRepo repository.ReportRepository, violations *ViolationService) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		violations: violations,
	}
}

type SubmitReportInput struct {
	Type       model.ViolationType
	Location   string
	MediaURL   string
	OccurredAt time.Time
}

type ReportDecisionInput struct {
	Approve      bool
	OffenderID   uuid.UUID
	FineAmount   int64
	LawReference string
}

type ListReportsOptions struct {
	Statuses []model.ReportStatus
	Limit    int
	Offset   int
}

func (s *ReportService) Submit(ctx context.Context, principal model.Principal, input SubmitReportInput) (*model.Report, error) {
	if !input.Type.Known() {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.MediaURL) == "" {
		return nil, ErrInvalidInput
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	report := &model.Report{
		ReporterID: principal.UserID,
		Type:       input.Type,
		Location:   input.Location,
		MediaURL:   input.MediaURL,
		OccurredAt: occurredAt,
		Status:     model.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, principal model.Principal, opts ListReportsOptions) ([]model.Report, error) {
	filter := repository.ReportFilter{
		Statuses: opts.Statuses,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}
	if !principal.IsAdmin() {
		filter.ReporterID = &principal.UserID
	}
	return s.reportRepo.List(ctx, filter)
}

// Decide closes a pending report. Approval needs an offender and a
// fine, since the report itself only carries the sighting.
func (s *ReportService) Decide(ctx context.Context, principal model.Principal, reportID uuid.UUID, input ReportDecisionInput) (*model.Report, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := model.ReportStatusRejected
	if input.Approve {
		status = model.ReportStatusApproved
		if input.OffenderID == uuid.Nil || input.FineAmount <= 0 {
			return nil, ErrInvalidInput
		}
	}

	decided, err := s.reportRepo.Decide(ctx, report.ID, status, principal.UserID, time.Now())
	if err != nil {
		return nil, err
	}
	if !decided {
		return nil, ErrInvalidStatus
	}

	if input.Approve {
		if _, err := s.violations.register(ctx, CreateViolationInput{
			OwnerID:      input.OffenderID,
			Type:         report.Type,
			OccurredAt:   report.OccurredAt,
			Location:     report.Location,
			FineAmount:   input.FineAmount,
			LawReference: input.LawReference,
			EvidenceURL:  report.MediaURL,
		}, &principal.UserID, "registered from citizen report"); err != nil {
			return nil, err
		}
	}

	return s.reportRepo.GetByID(ctx, report.ID)
}
