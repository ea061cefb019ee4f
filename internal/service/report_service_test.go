package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"civitrack-service/internal/model"
	"civitrack-service/internal/repository"
)

type ReportServiceSuite struct {
	suite.Suite

	ctx           context.Context
	reportRepo    *repository.MemoryReportRepository
	violationRepo *repository.MemoryViolationRepository
	svc           *ReportService

	admin   model.Principal
	citizen model.Principal
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.reportRepo = repository.NewMemoryReportRepository()
	s.violationRepo = repository.NewMemoryViolationRepository()
	violations := NewViolationService(s.violationRepo, repository.NewMemoryAppealRepository())
	s.svc = NewReportService(s.reportRepo, violations)

	s.admin = model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}
	s.citizen = model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}
}

func (s *ReportServiceSuite) submitReport() *model.Report {
	report, err := s.svc.Submit(s.ctx, s.citizen, SubmitReportInput{
		Type:     model.ViolationTypeWrongParking,
		Location: "Satpayev 22",
		MediaURL: "https://media.example/park.jpg",
	})
	s.Require().NoError(err)
	return report
}

func (s *ReportServiceSuite) TestSubmitValidation() {
	s.Run("unknown type", func() {
		_, err := s.svc.Submit(s.ctx, s.citizen, SubmitReportInput{
			Type:     "JAYWALKING",
			MediaURL: "https://media.example/x.jpg",
		})
		s.ErrorIs(err, ErrInvalidInput)
	})

	s.Run("missing media", func() {
		_, err := s.svc.Submit(s.ctx, s.citizen, SubmitReportInput{
			Type: model.ViolationTypeWrongParking,
		})
		s.ErrorIs(err, ErrInvalidInput)
	})
}

func (s *ReportServiceSuite) TestSubmitDefaults() {
	report := s.submitReport()
	s.Equal(model.ReportStatusPending, report.Status)
	s.Equal(s.citizen.UserID, report.ReporterID)
	s.False(report.OccurredAt.IsZero())
}

func (s *ReportServiceSuite) TestListScoping() {
	s.submitReport()

	other := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}
	theirs, err := s.svc.List(s.ctx, other, ListReportsOptions{})
	s.Require().NoError(err)
	s.Empty(theirs)

	mine, err := s.svc.List(s.ctx, s.citizen, ListReportsOptions{})
	s.Require().NoError(err)
	s.Len(mine, 1)

	all, err := s.svc.List(s.ctx, s.admin, ListReportsOptions{})
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ReportServiceSuite) TestDecideRequiresAdmin() {
	report := s.submitReport()
	_, err := s.svc.Decide(s.ctx, s.citizen, report.ID, ReportDecisionInput{})
	s.ErrorIs(err, ErrPermissionDenied)
}

func (s *ReportServiceSuite) TestApproveRegistersViolation() {
	report := s.submitReport()
	offender := uuid.New()

	decided, err := s.svc.Decide(s.ctx, s.admin, report.ID, ReportDecisionInput{
		Approve:    true,
		OffenderID: offender,
		FineAmount: 20000,
	})
	s.Require().NoError(err)
	s.Equal(model.ReportStatusApproved, decided.Status)
	s.Require().NotNil(decided.DecidedBy)
	s.Equal(s.admin.UserID, *decided.DecidedBy)

	violations, err := s.violationRepo.List(s.ctx, repository.ViolationFilter{OwnerID: &offender})
	s.Require().NoError(err)
	s.Require().Len(violations, 1)
	s.Equal(report.Type, violations[0].Type)
	s.Equal(report.MediaURL, violations[0].EvidenceURL)
	s.Equal(int64(20000), violations[0].FineAmount)
}

func (s *ReportServiceSuite) TestApproveNeedsOffenderAndFine() {
	report := s.submitReport()

	_, err := s.svc.Decide(s.ctx, s.admin, report.ID, ReportDecisionInput{Approve: true})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.svc.Decide(s.ctx, s.admin, report.ID, ReportDecisionInput{
		Approve:    true,
		OffenderID: uuid.New(),
	})
	s.ErrorIs(err, ErrInvalidInput)
}

func (s *ReportServiceSuite) TestRejectLeavesNoViolation() {
	report := s.submitReport()

	decided, err := s.svc.Decide(s.ctx, s.admin, report.ID, ReportDecisionInput{})
	s.Require().NoError(err)
	s.Equal(model.ReportStatusRejected, decided.Status)

	violations, err := s.violationRepo.List(s.ctx, repository.ViolationFilter{})
	s.Require().NoError(err)
	s.Empty(violations)
}

func (s *ReportServiceSuite) TestDecideOnce() {
	report := s.submitReport()

	_, err := s.svc.Decide(s.ctx, s.admin, report.ID, ReportDecisionInput{})
	s.Require().NoError(err)

	_, err = s.svc.Decide(s.ctx, s.admin, report.ID, ReportDecisionInput{})
	s.ErrorIs(err, ErrInvalidStatus)
}

func (s *ReportServiceSuite) TestDecideMissingReport() {
	_, err := s.svc.Decide(s.ctx, s.admin, uuid.New(), ReportDecisionInput{})
	s.ErrorIs(err, ErrNotFound)
}
