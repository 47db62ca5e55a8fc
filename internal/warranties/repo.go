package warranties

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles warranty persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to warranty operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new warranty row.
func (r *Repository) Create(ctx context.Context, warranty *models.Warranty) error {
	if warranty == nil {
		return fmt.Errorf("warranty is required")
	}
	return r.db.WithContext(ctx).Create(warranty).Error
}

// FindByID loads a warranty scoped to the owning shop.
func (r *Repository) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Warranty, error) {
	var warranty models.Warranty
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&warranty).Error; err != nil {
		return nil, err
	}
	return &warranty, nil
}

// FindByShortCode loads a warranty by its public code, unscoped by tenant.
func (r *Repository) FindByShortCode(ctx context.Context, shortCode string) (*models.Warranty, error) {
	var warranty models.Warranty
	if err := r.db.WithContext(ctx).
		Where("short_code = ?", strings.ToUpper(strings.TrimSpace(shortCode))).
		First(&warranty).Error; err != nil {
		return nil, err
	}
	return &warranty, nil
}

// List returns the shop's warranties newest-first using cursor pagination.
func (r *Repository) List(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Warranty, error) {
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

	var rows []models.Warranty
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided warranty.
func (r *Repository) Update(ctx context.Context, warranty *models.Warranty) error {
	if warranty == nil {
		return fmt.Errorf("warranty is required")
	}
	return r.db.WithContext(ctx).Save(warranty).Error
}

// Delete removes the warranty scoped to the owning shop.
func (r *Repository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		Delete(&models.Warranty{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ShortCodeExists reports whether any warranty already uses the code.
func (r *Repository) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Warranty{}).
		Where("short_code = ?", shortCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
