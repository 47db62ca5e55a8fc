package workers

import (
	"context"
	"fmt"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles worker and assignment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to worker operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new worker row.
func (r *Repository) Create(ctx context.Context, worker *models.Worker) error {
	if worker == nil {
		return fmt.Errorf("worker is required")
	}
	return r.db.WithContext(ctx).Create(worker).Error
}

// FindByID loads a worker scoped to the owning shop.
func (r *Repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// List returns the shop's workers ordered by name.
func (r *Repository) List(ctx context.Context, shopID uuid.UUID) ([]models.Worker, error) {
	var rows []models.Worker
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("name ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided worker.
func (r *Repository) Update(ctx context.Context, worker *models.Worker) error {
	if worker == nil {
		return fmt.Errorf("worker is required")
	}
	return r.db.WithContext(ctx).Save(worker).Error
}

// Delete removes the worker scoped to the owning shop.
func (r *Repository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		Delete(&models.Worker{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateAssignment inserts a live assignment row. The composite unique index
// on (job_id, worker_id) rejects duplicates.
func (r *Repository) CreateAssignment(ctx context.Context, assignment *models.WorkerAssignment) error {
	if assignment == nil {
		return fmt.Errorf("assignment is required")
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

// DeleteAssignment removes the live assignment row for a worker on a job.
func (r *Repository) DeleteAssignment(ctx context.Context, jobID, workerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("job_id = ? AND worker_id = ?", jobID, workerID).
		Delete(&models.WorkerAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAssignments returns the current worker set on a job.
func (r *Repository) ListAssignments(ctx context.Context, jobID uuid.UUID) ([]models.WorkerAssignment, error) {
	var rows []models.WorkerAssignment
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AppendEvent writes one audit record. Events are never updated or deleted.
func (r *Repository) AppendEvent(ctx context.Context, event *models.AssignmentEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	return r.db.WithContext(ctx).Create(event).Error
}

// ListEvents returns the full audit log for a job, oldest first.
func (r *Repository) ListEvents(ctx context.Context, jobID uuid.UUID) ([]models.AssignmentEvent, error) {
	var rows []models.AssignmentEvent
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("occurred_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDs loads multiple workers in one query for name joins.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Worker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Worker
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
