package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"civitrack-service/internal/model"
	"civitrack-service/internal/repository"
	"civitrack-service/internal/review"
	"civitrack-service/internal/scheduler"
)

type AttachmentInput struct {
	FileURL string
}

// AppealService runs the appeal lifecycle: submission, the two-stage
// timed review, and the resulting violation status write-back.
type AppealService struct {
	violationRepo   repository.ViolationRepository
	appealRepo      repository.AppealRepository
	automatedPolicy review.AutomatedPolicy
	authorityPolicy review.AuthorityPolicy
	sched           scheduler.Scheduler
	automatedDelay  time.Duration
	authorityDelay  time.Duration
	maxAttachments  int
	log             zerolog.Logger
}

func NewAppealService(
	violationRepo repository.ViolationRepository,
	appealRepo repository.AppealRepository,
	automatedPolicy review.AutomatedPolicy,
	authorityPolicy review.AuthorityPolicy,
	sched scheduler.Scheduler,
	automatedDelay time.Duration,
	authorityDelay time.Duration,
	maxAttachments int,
	log zerolog.Logger,
) *AppealService {
	return &AppealService{
		violationRepo:   violationRepo,
		appealRepo:      appealRepo,
		automatedPolicy: automatedPolicy,
		authorityPolicy: authorityPolicy,
		sched:           sched,
		automatedDelay:  automatedDelay,
		authorityDelay:  authorityDelay,
		maxAttachments:  maxAttachments,
		log:             log,
	}
}

type AppealListOptions struct {
	Statuses    []model.AppealStatus
	ViolationID *uuid.UUID
	Limit       int
	Offset      int
}

// Submit creates the appeal in PENDING/PENDING/PENDING, marks the
// violation APPEALED and arms the automated-review timer. The authority
// timer is armed later, from inside the automated callback, which is
// what guarantees the two stages resolve in order.
func (s *AppealService) Submit(ctx context.Context, principal model.Principal, violationID uuid.UUID, reason string, attachments []AttachmentInput) (*model.Appeal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	if len(attachments) > s.maxAttachments {
		return nil, ErrInvalidInput
	}

	violation, err := s.violationRepo.GetByID(ctx, violationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.Owns(violation.OwnerID) {
		return nil, ErrPermissionDenied
	}

	switch violation.Status {
	case model.ViolationStatusAppealed, model.ViolationStatusDismissed:
		return nil, ErrConflict
	case model.ViolationStatusPaid:
		return nil, ErrConflict
	}

	if _, err := s.appealRepo.GetActiveByViolation(ctx, violation.ID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	modelAttachments, err := s.buildAttachments(attachments, principal.UserID)
	if err != nil {
		return nil, err
	}

	// The conditional flip is the atomic guard against concurrent
	// submits: of two racing callers only one moves PENDING -> APPEALED.
	// The appeal is created only after winning, so a loser never leaves
	// an active appeal behind on a violation that stayed PENDING.
	marked, err := s.violationRepo.UpdateStatus(ctx, violation.ID,
		[]model.ViolationStatus{model.ViolationStatusPending}, model.ViolationStatusAppealed)
	if err != nil {
		return nil, err
	}
	if !marked {
		return nil, ErrConflict
	}

	appeal := &model.Appeal{
		ViolationID:      violation.ID,
		OwnerID:          principal.UserID,
		Reason:           reason,
		AutomatedVerdict: model.VerdictPending,
		AuthorityVerdict: model.VerdictPending,
		Status:           model.AppealStatusPending,
	}

	if err := s.appealRepo.Create(ctx, appeal, modelAttachments); err != nil {
		if _, revertErr := s.violationRepo.UpdateStatus(ctx, violation.ID,
			[]model.ViolationStatus{model.ViolationStatusAppealed}, model.ViolationStatusPending); revertErr != nil {
			s.log.Error().Err(revertErr).Str("violation_id", violation.ID.String()).Msg("appeal create rollback failed")
		}
		return nil, err
	}

	prev := violation.Status
	if err := s.violationRepo.LogStatusChange(ctx, &model.ViolationStatusLog{
		ViolationID: violation.ID,
		OldStatus:   &prev,
		NewStatus:   model.ViolationStatusAppealed,
		Note:        "appeal submitted",
		ChangedBy:   &principal.UserID,
	}); err != nil {
		return nil, err
	}
	if err := s.appealRepo.LogStatusChange(ctx, &model.AppealStatusLog{
		AppealID:  appeal.ID,
		NewStatus: model.AppealStatusPending,
		Note:      "appeal submitted",
		ChangedBy: &principal.UserID,
	}); err != nil {
		return nil, err
	}

	appealID := appeal.ID
	s.sched.After(s.automatedDelay, func() {
		s.resolveAutomated(appealID)
	})

	s.log.Info().
		Str("appeal_id", appeal.ID.String()).
		Str("violation_id", violation.ID.String()).
		Msg("appeal submitted, automated review scheduled")

	return s.appealRepo.GetByID(ctx, appeal.ID)
}

// resolveAutomated runs on the review timer. The appeal may have
// vanished or already be resolved by the time it fires; both cases are
// silent no-ops because nobody is left to observe a failure.
func (s *AppealService) resolveAutomated(appealID uuid.UUID) {
	ctx := context.Background()

	appeal, err := s.appealRepo.GetByID(ctx, appealID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("automated review load failed")
		}
		return
	}

	verdict := s.automatedPolicy.Decide(appeal)
	resolved, err := s.appealRepo.ResolveAutomated(ctx, appealID, verdict, time.Now())
	if err != nil {
		s.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("automated verdict write failed")
		return
	}
	if !resolved {
		return
	}

	if err := s.appealRepo.LogStatusChange(ctx, &model.AppealStatusLog{
		AppealID:  appealID,
		NewStatus: model.AppealStatusPending,
		Note:      fmt.Sprintf("automated verdict: %s", verdict),
	}); err != nil {
		s.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("appeal log write failed")
	}

	s.log.Info().
		Str("appeal_id", appealID.String()).
		Str("verdict", string(verdict)).
		Msg("automated review resolved, authority review scheduled")

	s.sched.After(s.authorityDelay, func() {
		s.resolveAuthority(appealID)
	})
}

func (s *AppealService) resolveAuthority(appealID uuid.UUID) {
	ctx := context.Background()

	appeal, err := s.appealRepo.GetByID(ctx, appealID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("authority review load failed")
		}
		return
	}
	if appeal.AutomatedVerdict == model.VerdictPending {
		return
	}

	verdict := s.authorityPolicy.Decide(appeal, appeal.AutomatedVerdict)
	resolved, err := s.appealRepo.ResolveAuthority(ctx, appealID, verdict, time.Now())
	if err != nil {
		s.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("authority verdict write failed")
		return
	}
	if !resolved {
		return
	}

	oldStatus := model.AppealStatusPending
	if err := s.appealRepo.LogStatusChange(ctx, &model.AppealStatusLog{
		AppealID:  appealID,
		OldStatus: &oldStatus,
		NewStatus: model.AppealStatusReviewed,
		Note:      fmt.Sprintf("authority verdict: %s", verdict),
	}); err != nil {
		s.log.Error().Err(err).Str("appeal_id", appealID.String()).Msg("appeal log write failed")
	}

	final := model.DeriveFinalVerdict(appeal.AutomatedVerdict, verdict)
	s.log.Info().
		Str("appeal_id", appealID.String()).
		Str("verdict", string(verdict)).
		Str("final_verdict", string(final)).
		Msg("authority review resolved")

	switch final {
	case model.VerdictAccepted:
		s.applyViolationOutcome(ctx, appeal.ViolationID,
			[]model.ViolationStatus{model.ViolationStatusAppealed},
			model.ViolationStatusDismissed, "appeal accepted, fine waived")
	case model.VerdictRejected:
		// A fully rejected appeal reopens the fine for payment.
		s.applyViolationOutcome(ctx, appeal.ViolationID,
			[]model.ViolationStatus{model.ViolationStatusAppealed},
			model.ViolationStatusPending, "appeal rejected, fine payable")
	}
}

// applyViolationOutcome writes the post-review violation status. The
// conditional update makes it idempotent and safe against the violation
// having moved through another path meanwhile.
func (s *AppealService) applyViolationOutcome(ctx context.Context, violationID uuid.UUID, from []model.ViolationStatus, to model.ViolationStatus, note string) {
	updated, err := s.violationRepo.UpdateStatus(ctx, violationID, from, to)
	if err != nil {
		s.log.Error().Err(err).Str("violation_id", violationID.String()).Msg("violation outcome write failed")
		return
	}
	if !updated {
		return
	}

	old := model.ViolationStatusAppealed
	if err := s.violationRepo.LogStatusChange(ctx, &model.ViolationStatusLog{
		ViolationID: violationID,
		OldStatus:   &old,
		NewStatus:   to,
		Note:        note,
	}); err != nil {
		s.log.Error().Err(err).Str("violation_id", violationID.String()).Msg("violation log write failed")
	}
}

func (s *AppealService) Get(ctx context.Context, principal model.Principal, appealID uuid.UUID) (*model.Appeal, error) {
	appeal, err := s.appealRepo.GetByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsAdmin() && !principal.Owns(appeal.OwnerID) {
		return nil, ErrNotFound
	}
	return appeal, nil
}

func (s *AppealService) List(ctx context.Context, principal model.Principal, opts AppealListOptions) ([]model.Appeal, error) {
	filter := repository.AppealFilter{
		Statuses:    opts.Statuses,
		ViolationID: opts.ViolationID,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	}
	if !principal.IsAdmin() {
		filter.OwnerID = &principal.UserID
	}
	return s.appealRepo.List(ctx, filter)
}

// AddComment attaches free text to an appeal. Comments never change
// the derived outcome.
func (s *AppealService) AddComment(ctx context.Context, principal model.Principal, appealID uuid.UUID, message string) error {
	appeal, err := s.Get(ctx, principal, appealID)
	if err != nil {
		return err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return ErrInvalidInput
	}

	return s.appealRepo.AddComment(ctx, &model.AppealComment{
		AppealID:   appeal.ID,
		AuthorID:   principal.UserID,
		AuthorRole: principal.Role,
		Message:    message,
	})
}

func (s *AppealService) buildAttachments(inputs []AttachmentInput, uploader uuid.UUID) ([]model.AppealAttachment, error) {
	attachments := make([]model.AppealAttachment, 0, len(inputs))
	for _, att := range inputs {
		if strings.TrimSpace(att.FileURL) == "" {
			return nil, ErrInvalidInput
		}
		attachments = append(attachments, model.AppealAttachment{
			FileURL:    att.FileURL,
			UploadedBy: uploader,
		})
	}
	return attachments, nil
}
