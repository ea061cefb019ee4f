package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"civitrack-service/internal/model"
)

type GormViolationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *GormViolationRepository {
	return &GormViolationRepository{db: db}
}

func (r *GormViolationRepository) Create(ctx context.Context, violation *model.Violation) error {
	return r.db.WithContext(ctx).Create(violation).Error
}

func (r *GormViolationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error) {
	var violation model.Violation
	if err := r.db.WithContext(ctx).First(&violation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &violation, nil
}

func (r *GormViolationRepository) List(ctx context.Context, filter ViolationFilter) ([]model.Violation, error) {
	query := r.db.WithContext(ctx).Model(&model.Violation{})

	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if filter.DateFrom != nil {
		query = query.Where("occurred_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("occurred_at <= ?", *filter.DateTo)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(defaultListLimit)
	}

	var violations []model.Violation
	if err := query.Order("created_at ASC").Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

func (r *GormViolationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from []model.ViolationStatus, to model.ViolationStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Violation{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormViolationRepository) LogStatusChange(ctx context.Context, entry *model.ViolationStatusLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormViolationRepository) ListStatusLog(ctx context.Context, violationID uuid.UUID) ([]model.ViolationStatusLog, error) {
	var entries []model.ViolationStatusLog
	if err := r.db.WithContext(ctx).
		Where("violation_id = ?", violationID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
