package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"civitrack-service/internal/model"
)

type GormReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

func (r *GormReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *GormReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *GormReportRepository) List(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{})

	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
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

	var reports []model.Report
	if err := query.Order("created_at ASC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *GormReportRepository) Decide(ctx context.Context, id uuid.UUID, status model.ReportStatus, decidedBy uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ? AND status = ?", id, model.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
