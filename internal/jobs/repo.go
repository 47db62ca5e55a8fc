package jobs

import (
	"context"
	"fmt"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles job sheet persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to job sheet operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new job sheet row.
func (r *Repository) Create(ctx context.Context, job *models.JobSheet) error {
	if job == nil {
		return fmt.Errorf("job is required")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID loads a job scoped to the owning shop. Foreign rows surface as
// record-not-found.
func (r *Repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.JobSheet, error) {
	var job models.JobSheet
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns the shop's jobs newest-first using cursor pagination.
func (r *Repository) List(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.JobSheet, error) {
	query := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.JobSheet
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns jobs across every shop newest-first, for admin listings.
func (r *Repository) ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.JobSheet, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.JobSheet
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided job sheet.
func (r *Repository) Update(ctx context.Context, job *models.JobSheet) error {
	if job == nil {
		return fmt.Errorf("job is required")
	}
	return r.db.WithContext(ctx).Save(job).Error
}

// Delete removes the job scoped to the owning shop.
func (r *Repository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		Delete(&models.JobSheet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// JobNumberExists reports whether the shop already uses the job number.
func (r *Repository) JobNumberExists(ctx context.Context, shopID uuid.UUID, jobNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.JobSheet{}).
		Where("shop_id = ? AND job_number = ?", shopID, jobNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
