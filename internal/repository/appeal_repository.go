package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"civitrack-service/internal/model"
)

type GormAppealRepository struct {
	db *gorm.DB
}

func NewAppealRepository(db *gorm.DB) *GormAppealRepository {
	return &GormAppealRepository{db: db}
}

func (r *GormAppealRepository) Create(ctx context.Context, appeal *model.Appeal, attachments []model.AppealAttachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appeal).Error; err != nil {
			return err
		}
		if len(attachments) > 0 {
			for i := range attachments {
				attachments[i].AppealID = appeal.ID
			}
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormAppealRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("Comments").
		First(&appeal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appeal, nil
}

func (r *GormAppealRepository) List(ctx context.Context, filter AppealFilter) ([]model.Appeal, error) {
	query := r.db.WithContext(ctx).Model(&model.Appeal{})

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.ViolationID != nil {
		query = query.Where("violation_id = ?", *filter.ViolationID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(defaultListLimit)
	}

	var appeals []model.Appeal
	if err := query.
		Order("created_at ASC").
		Preload("Attachments").
		Find(&appeals).Error; err != nil {
		return nil, err
	}
	return appeals, nil
}

func (r *GormAppealRepository) GetActiveByViolation(ctx context.Context, violationID uuid.UUID) (*model.Appeal, error) {
	var appeal model.Appeal
	if err := r.db.WithContext(ctx).
		Where("violation_id = ? AND status = ?", violationID, model.AppealStatusPending).
		Order("created_at DESC").
		First(&appeal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appeal, nil
}

func (r *GormAppealRepository) ResolveAutomated(ctx context.Context, id uuid.UUID, verdict model.Verdict, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Appeal{}).
		Where("id = ? AND automated_verdict = ?", id, model.VerdictPending).
		Updates(map[string]interface{}{
			"automated_verdict":     verdict,
			"automated_resolved_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormAppealRepository) ResolveAuthority(ctx context.Context, id uuid.UUID, verdict model.Verdict, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Appeal{}).
		Where("id = ? AND authority_verdict = ? AND automated_verdict <> ?", id, model.VerdictPending, model.VerdictPending).
		Updates(map[string]interface{}{
			"authority_verdict": verdict,
			"status":            model.AppealStatusReviewed,
			"resolved_at":       at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormAppealRepository) SummariesByViolationIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]AppealSummary, error) {
	result := make(map[uuid.UUID]AppealSummary)
	if len(ids) == 0 {
		return result, nil
	}

	var appeals []model.Appeal
	if err := r.db.WithContext(ctx).
		Model(&model.Appeal{}).
		Where("violation_id IN ?", ids).
		Order("violation_id, created_at DESC").
		Find(&appeals).Error; err != nil {
		return nil, err
	}

	for _, appeal := range appeals {
		entry := result[appeal.ViolationID]
		if entry.LastAppeal == nil {
			last := appeal
			entry.LastAppeal = &last
		}
		if appeal.Status == model.AppealStatusPending {
			entry.HasActive = true
		}
		result[appeal.ViolationID] = entry
	}

	return result, nil
}

func (r *GormAppealRepository) AddComment(ctx context.Context, comment *model.AppealComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *GormAppealRepository) LogStatusChange(ctx context.Context, entry *model.AppealStatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
