package shops

import (
	"context"
	"fmt"
	"strings"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles shop persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to shop operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new shop row.
func (r *Repository) Create(ctx context.Context, dto CreateShopDTO) (*models.Shop, error) {
	shop := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// FindByID loads a shop by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByEmail loads a shop by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// FindByIDs loads the shops matching the provided IDs.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shop, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shops []models.Shop
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// Update saves the provided shop.
func (r *Repository) Update(ctx context.Context, shop *models.Shop) error {
	if shop == nil {
		return fmt.Errorf("shop is required")
	}
	return r.db.WithContext(ctx).Save(shop).Error
}

// List returns shops newest-first using cursor pagination.
func (r *Repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Shop, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}
