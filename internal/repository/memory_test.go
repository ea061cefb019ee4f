package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"civitrack-service/internal/model"
)

type MemoryRepositorySuite struct {
	suite.Suite

	ctx        context.Context
	violations *MemoryViolationRepository
	appeals    *MemoryAppealRepository
	reports    *MemoryReportRepository
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryRepositorySuite))
}

func (s *MemoryRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.violations = NewMemoryViolationRepository()
	s.appeals = NewMemoryAppealRepository()
	s.reports = NewMemoryReportRepository()
}

func (s *MemoryRepositorySuite) newViolation(owner uuid.UUID) *model.Violation {
	violation := &model.Violation{
		OwnerID:    owner,
		Type:       model.ViolationTypeNoHelmet,
		OccurredAt: time.Now(),
		FineAmount: 5000,
		Status:     model.ViolationStatusPending,
	}
	s.Require().NoError(s.violations.Create(s.ctx, violation))
	return violation
}

func (s *MemoryRepositorySuite) TestGetByIDMissing() {
	_, err := s.violations.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryRepositorySuite) TestListKeepsInsertionOrder() {
	owner := uuid.New()
	first := s.newViolation(owner)
	second := s.newViolation(owner)
	third := s.newViolation(owner)

	listed, err := s.violations.List(s.ctx, ViolationFilter{OwnerID: &owner})
	s.Require().NoError(err)
	s.Require().Len(listed, 3)
	s.Equal(first.ID, listed[0].ID)
	s.Equal(second.ID, listed[1].ID)
	s.Equal(third.ID, listed[2].ID)
}

func (s *MemoryRepositorySuite) TestListPagination() {
	owner := uuid.New()
	for i := 0; i < 5; i++ {
		s.newViolation(owner)
	}

	page, err := s.violations.List(s.ctx, ViolationFilter{OwnerID: &owner, Limit: 2, Offset: 3})
	s.Require().NoError(err)
	s.Len(page, 2)

	empty, err := s.violations.List(s.ctx, ViolationFilter{OwnerID: &owner, Offset: 10})
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *MemoryRepositorySuite) TestListAppliesDefaultCap() {
	owner := uuid.New()
	for i := 0; i < defaultListLimit+5; i++ {
		s.newViolation(owner)
	}

	uncapped, err := s.violations.List(s.ctx, ViolationFilter{OwnerID: &owner})
	s.Require().NoError(err)
	s.Len(uncapped, defaultListLimit)

	explicit, err := s.violations.List(s.ctx, ViolationFilter{OwnerID: &owner, Limit: defaultListLimit + 5})
	s.Require().NoError(err)
	s.Len(explicit, defaultListLimit+5)
}

func (s *MemoryRepositorySuite) TestUpdateStatusConditional() {
	violation := s.newViolation(uuid.New())

	updated, err := s.violations.UpdateStatus(s.ctx, violation.ID,
		[]model.ViolationStatus{model.ViolationStatusPending}, model.ViolationStatusPaid)
	s.Require().NoError(err)
	s.True(updated)

	// Second transition from PENDING must find nothing to update.
	updated, err = s.violations.UpdateStatus(s.ctx, violation.ID,
		[]model.ViolationStatus{model.ViolationStatusPending}, model.ViolationStatusAppealed)
	s.Require().NoError(err)
	s.False(updated)

	stored, err := s.violations.GetByID(s.ctx, violation.ID)
	s.Require().NoError(err)
	s.Equal(model.ViolationStatusPaid, stored.Status)
}

func (s *MemoryRepositorySuite) TestUpdateStatusMissingViolation() {
	updated, err := s.violations.UpdateStatus(s.ctx, uuid.New(),
		[]model.ViolationStatus{model.ViolationStatusPending}, model.ViolationStatusPaid)
	s.Require().NoError(err)
	s.False(updated)
}

func (s *MemoryRepositorySuite) newAppeal(violationID uuid.UUID) *model.Appeal {
	appeal := &model.Appeal{
		ViolationID:      violationID,
		OwnerID:          uuid.New(),
		Reason:           "wrong vehicle",
		AutomatedVerdict: model.VerdictPending,
		AuthorityVerdict: model.VerdictPending,
		Status:           model.AppealStatusPending,
	}
	s.Require().NoError(s.appeals.Create(s.ctx, appeal, nil))
	return appeal
}

func (s *MemoryRepositorySuite) TestResolveAutomatedOnce() {
	appeal := s.newAppeal(uuid.New())

	resolved, err := s.appeals.ResolveAutomated(s.ctx, appeal.ID, model.VerdictAccepted, time.Now())
	s.Require().NoError(err)
	s.True(resolved)

	resolved, err = s.appeals.ResolveAutomated(s.ctx, appeal.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)
	s.False(resolved)

	stored, err := s.appeals.GetByID(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Equal(model.VerdictAccepted, stored.AutomatedVerdict)
	s.NotNil(stored.AutomatedResolvedAt)
	s.Equal(model.AppealStatusPending, stored.Status)
}

func (s *MemoryRepositorySuite) TestResolveAuthorityRequiresAutomated() {
	appeal := s.newAppeal(uuid.New())

	resolved, err := s.appeals.ResolveAuthority(s.ctx, appeal.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)
	s.False(resolved)

	_, err = s.appeals.ResolveAutomated(s.ctx, appeal.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)

	resolved, err = s.appeals.ResolveAuthority(s.ctx, appeal.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)
	s.True(resolved)

	stored, err := s.appeals.GetByID(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Equal(model.AppealStatusReviewed, stored.Status)
	s.NotNil(stored.ResolvedAt)

	// Reviewed appeals never resolve again.
	resolved, err = s.appeals.ResolveAuthority(s.ctx, appeal.ID, model.VerdictAccepted, time.Now())
	s.Require().NoError(err)
	s.False(resolved)
}

func (s *MemoryRepositorySuite) TestGetActiveByViolation() {
	violationID := uuid.New()

	_, err := s.appeals.GetActiveByViolation(s.ctx, violationID)
	s.ErrorIs(err, ErrNotFound)

	appeal := s.newAppeal(violationID)

	active, err := s.appeals.GetActiveByViolation(s.ctx, violationID)
	s.Require().NoError(err)
	s.Equal(appeal.ID, active.ID)

	_, err = s.appeals.ResolveAutomated(s.ctx, appeal.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)
	_, err = s.appeals.ResolveAuthority(s.ctx, appeal.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)

	_, err = s.appeals.GetActiveByViolation(s.ctx, violationID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryRepositorySuite) TestSummariesByViolationIDs() {
	violationID := uuid.New()
	first := s.newAppeal(violationID)
	_, err := s.appeals.ResolveAutomated(s.ctx, first.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)
	_, err = s.appeals.ResolveAuthority(s.ctx, first.ID, model.VerdictRejected, time.Now())
	s.Require().NoError(err)
	second := s.newAppeal(violationID)

	summaries, err := s.appeals.SummariesByViolationIDs(s.ctx, []uuid.UUID{violationID, uuid.New()})
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)

	summary := summaries[violationID]
	s.Require().NotNil(summary.LastAppeal)
	s.Equal(second.ID, summary.LastAppeal.ID)
	s.True(summary.HasActive)
}

func (s *MemoryRepositorySuite) TestAppealCloneIsolation() {
	appeal := s.newAppeal(uuid.New())

	loaded, err := s.appeals.GetByID(s.ctx, appeal.ID)
	s.Require().NoError(err)
	loaded.Status = model.AppealStatusReviewed

	stored, err := s.appeals.GetByID(s.ctx, appeal.ID)
	s.Require().NoError(err)
	s.Equal(model.AppealStatusPending, stored.Status)
}

func (s *MemoryRepositorySuite) TestAddCommentMissingAppeal() {
	err := s.appeals.AddComment(s.ctx, &model.AppealComment{
		AppealID: uuid.New(),
		AuthorID: uuid.New(),
		Message:  "hello",
	})
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryRepositorySuite) TestReportDecideOnce() {
	report := &model.Report{
		ReporterID: uuid.New(),
		Type:       model.ViolationTypeWrongParking,
		MediaURL:   "https://media.example/1.jpg",
		OccurredAt: time.Now(),
		Status:     model.ReportStatusPending,
	}
	s.Require().NoError(s.reports.Create(s.ctx, report))

	admin := uuid.New()
	decided, err := s.reports.Decide(s.ctx, report.ID, model.ReportStatusApproved, admin, time.Now())
	s.Require().NoError(err)
	s.True(decided)

	decided, err = s.reports.Decide(s.ctx, report.ID, model.ReportStatusRejected, admin, time.Now())
	s.Require().NoError(err)
	s.False(decided)

	stored, err := s.reports.GetByID(s.ctx, report.ID)
	s.Require().NoError(err)
	s.Equal(model.ReportStatusApproved, stored.Status)
	s.Require().NotNil(stored.DecidedBy)
	s.Equal(admin, *stored.DecidedBy)
}

func (s *MemoryRepositorySuite) TestStatusLogRoundTrip() {
	violation := s.newViolation(uuid.New())

	old := model.ViolationStatusPending
	s.Require().NoError(s.violations.LogStatusChange(s.ctx, &model.ViolationStatusLog{
		ViolationID: violation.ID,
		OldStatus:   &old,
		NewStatus:   model.ViolationStatusPaid,
		Note:        "fine paid",
	}))

	entries, err := s.violations.ListStatusLog(s.ctx, violation.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.ViolationStatusPaid, entries[0].NewStatus)
	s.NotEqual(uuid.Nil, entries[0].ID)
}
