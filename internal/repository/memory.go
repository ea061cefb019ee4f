package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"civitrack-service/internal/model"
)

// In-memory repositories back the demo storage driver and the test
// suites. Each keeps an id index plus an insertion-order slice and
// guards both with a single mutex, so timer callbacks and request
// goroutines can share one instance.

type MemoryViolationRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Violation
	order []uuid.UUID
	logs  map[uuid.UUID][]model.ViolationStatusLog
}

func NewMemoryViolationRepository() *MemoryViolationRepository {
	return &MemoryViolationRepository{
		byID: make(map[uuid.UUID]*model.Violation),
		logs: make(map[uuid.UUID][]model.ViolationStatusLog),
	}
}

func (r *MemoryViolationRepository) Create(ctx context.Context, violation *model.Violation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if violation.ID == uuid.Nil {
		violation.ID = uuid.New()
	}
	now := time.Now()
	if violation.CreatedAt.IsZero() {
		violation.CreatedAt = now
	}
	violation.UpdatedAt = now

	stored := *violation
	r.byID[violation.ID] = &stored
	r.order = append(r.order, violation.ID)
	return nil
}

func (r *MemoryViolationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *stored
	return &out, nil
}

func (r *MemoryViolationRepository) List(ctx context.Context, filter ViolationFilter) ([]model.Violation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.Violation, 0)
	for _, id := range r.order {
		v := r.byID[id]
		if filter.OwnerID != nil && v.OwnerID != *filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsViolationStatus(filter.Statuses, v.Status) {
			continue
		}
		if len(filter.Types) > 0 && !containsViolationType(filter.Types, v.Type) {
			continue
		}
		if filter.DateFrom != nil && v.OccurredAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && v.OccurredAt.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, *v)
	}

	return paginate(matched, filter.Offset, filter.Limit), nil
}

func (r *MemoryViolationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.ViolationStatus, to model.ViolationStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if !containsViolationStatus(from, stored.Status) {
		return false, nil
	}
	stored.Status = to
	stored.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryViolationRepository) LogStatusChange(ctx context.Context, entry *model.ViolationStatusLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.logs[entry.ViolationID] = append(r.logs[entry.ViolationID], *entry)
	return nil
}

func (r *MemoryViolationRepository) ListStatusLog(ctx context.Context, violationID uuid.UUID) ([]model.ViolationStatusLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.logs[violationID]
	out := make([]model.ViolationStatusLog, len(entries))
	copy(out, entries)
	return out, nil
}

type MemoryAppealRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Appeal
	order []uuid.UUID
	logs  map[uuid.UUID][]model.AppealStatusLog
}

func NewMemoryAppealRepository() *MemoryAppealRepository {
	return &MemoryAppealRepository{
		byID: make(map[uuid.UUID]*model.Appeal),
		logs: make(map[uuid.UUID][]model.AppealStatusLog),
	}
}

func (r *MemoryAppealRepository) Create(ctx context.Context, appeal *model.Appeal, attachments []model.AppealAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appeal.ID == uuid.Nil {
		appeal.ID = uuid.New()
	}
	now := time.Now()
	if appeal.CreatedAt.IsZero() {
		appeal.CreatedAt = now
	}
	appeal.UpdatedAt = now

	for i := range attachments {
		if attachments[i].ID == uuid.Nil {
			attachments[i].ID = uuid.New()
		}
		attachments[i].AppealID = appeal.ID
		if attachments[i].CreatedAt.IsZero() {
			attachments[i].CreatedAt = now
		}
	}
	appeal.Attachments = append(appeal.Attachments, attachments...)

	stored := cloneAppeal(appeal)
	r.byID[appeal.ID] = stored
	r.order = append(r.order, appeal.ID)
	return nil
}

func (r *MemoryAppealRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAppeal(stored), nil
}

func (r *MemoryAppealRepository) List(ctx context.Context, filter AppealFilter) ([]model.Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.Appeal, 0)
	for _, id := range r.order {
		a := r.byID[id]
		if filter.OwnerID != nil && a.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.ViolationID != nil && a.ViolationID != *filter.ViolationID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsAppealStatus(filter.Statuses, a.Status) {
			continue
		}
		matched = append(matched, *cloneAppeal(a))
	}

	return paginate(matched, filter.Offset, filter.Limit), nil
}

func (r *MemoryAppealRepository) GetActiveByViolation(ctx context.Context, violationID uuid.UUID) (*model.Appeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		a := r.byID[r.order[i]]
		if a.ViolationID == violationID && a.Status == model.AppealStatusPending {
			return cloneAppeal(a), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAppealRepository) ResolveAutomated(ctx context.Context, id uuid.UUID, verdict model.Verdict, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok || stored.AutomatedVerdict != model.VerdictPending {
		return false, nil
	}
	stored.AutomatedVerdict = verdict
	resolved := at
	stored.AutomatedResolvedAt = &resolved
	stored.UpdatedAt = at
	return true, nil
}

func (r *MemoryAppealRepository) ResolveAuthority(ctx context.Context, id uuid.UUID, verdict model.Verdict, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok || stored.AuthorityVerdict != model.VerdictPending || stored.AutomatedVerdict == model.VerdictPending {
		return false, nil
	}
	stored.AuthorityVerdict = verdict
	stored.Status = model.AppealStatusReviewed
	resolved := at
	stored.ResolvedAt = &resolved
	stored.UpdatedAt = at
	return true, nil
}

func (r *MemoryAppealRepository) SummariesByViolationIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]AppealSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	result := make(map[uuid.UUID]AppealSummary)
	for _, id := range r.order {
		a := r.byID[id]
		if _, ok := wanted[a.ViolationID]; !ok {
			continue
		}
		entry := result[a.ViolationID]
		entry.LastAppeal = cloneAppeal(a)
		if a.Status == model.AppealStatusPending {
			entry.HasActive = true
		}
		result[a.ViolationID] = entry
	}

	return result, nil
}

func (r *MemoryAppealRepository) AddComment(ctx context.Context, comment *model.AppealComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[comment.AppealID]
	if !ok {
		return ErrNotFound
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	stored.Comments = append(stored.Comments, *comment)
	return nil
}

func (r *MemoryAppealRepository) LogStatusChange(ctx context.Context, entry *model.AppealStatusLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.logs[entry.AppealID] = append(r.logs[entry.AppealID], *entry)
	return nil
}

type MemoryReportRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Report
	order []uuid.UUID
}

func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{byID: make(map[uuid.UUID]*model.Report)}
}

func (r *MemoryReportRepository) Create(ctx context.Context, report *model.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	now := time.Now()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	stored := *report
	r.byID[report.ID] = &stored
	r.order = append(r.order, report.ID)
	return nil
}

func (r *MemoryReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *stored
	return &out, nil
}

func (r *MemoryReportRepository) List(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.Report, 0)
	for _, id := range r.order {
		rep := r.byID[id]
		if filter.ReporterID != nil && rep.ReporterID != *filter.ReporterID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsReportStatus(filter.Statuses, rep.Status) {
			continue
		}
		matched = append(matched, *rep)
	}

	return paginate(matched, filter.Offset, filter.Limit), nil
}

func (r *MemoryReportRepository) Decide(ctx context.Context, id uuid.UUID, status model.ReportStatus, decidedBy uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok || stored.Status != model.ReportStatusPending {
		return false, nil
	}
	stored.Status = status
	stored.DecidedBy = &decidedBy
	decided := at
	stored.DecidedAt = &decided
	stored.UpdatedAt = at
	return true, nil
}

func cloneAppeal(a *model.Appeal) *model.Appeal {
	out := *a
	out.Attachments = make([]model.AppealAttachment, len(a.Attachments))
	copy(out.Attachments, a.Attachments)
	out.Comments = make([]model.AppealComment, len(a.Comments))
	copy(out.Comments, a.Comments)
	return &out
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func containsViolationStatus(haystack []model.ViolationStatus, needle model.ViolationStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsViolationType(haystack []model.ViolationType, needle model.ViolationType) bool {
	for _, t := range haystack {
		if t == needle {
			return true
		}
	}
	return false
}

func containsAppealStatus(haystack []model.AppealStatus, needle model.AppealStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsReportStatus(haystack []model.ReportStatus, needle model.ReportStatus) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
