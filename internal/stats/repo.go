package stats

import (
	"context"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatusCount is one row of a GROUP BY status aggregation.
type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

// CategoryCount is one row of a GROUP BY device_category aggregation.
type CategoryCount struct {
	Category string `gorm:"column:device_category"`
	Count    int64  `gorm:"column:count"`
}

// WarrantyIssueRow carries just the fields revenue bucketing needs.
type WarrantyIssueRow struct {
	IssuedAt   time.Time       `gorm:"column:issued_at"`
	RepairCost decimal.Decimal `gorm:"column:repair_cost"`
}

// Repository runs read-only aggregation queries for the dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to aggregation queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// JobStatusCounts groups the shop's job sheets by status.
func (r *Repository) JobStatusCounts(ctx context.Context, shopID uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.JobSheet{}).
		Select("status, COUNT(*) AS count").
		Where("shop_id = ?", shopID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeviceCategoryCounts groups the shop's job sheets by device category.
func (r *Repository) DeviceCategoryCounts(ctx context.Context, shopID uuid.UUID) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).
		Model(&models.JobSheet{}).
		Select("device_category, COUNT(*) AS count").
		Where("shop_id = ?", shopID).
		Group("device_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WarrantyIssueRows returns issued_at and repair_cost for every warranty the
// shop issued at or after the cutoff. The service buckets them in Go so the
// calendar alignment logic lives in one place.
func (r *Repository) WarrantyIssueRows(ctx context.Context, shopID uuid.UUID, since time.Time) ([]WarrantyIssueRow, error) {
	var rows []WarrantyIssueRow
	err := r.db.WithContext(ctx).
		Model(&models.Warranty{}).
		Select("issued_at, repair_cost").
		Where("shop_id = ? AND issued_at >= ?", shopID, since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// WarrantyLifetime holds whole-history aggregates computed in SQL.
type WarrantyLifetime struct {
	Total   int64           `gorm:"column:total"`
	Active  int64           `gorm:"column:active"`
	Revenue decimal.Decimal `gorm:"column:revenue"`
}

// WarrantyLifetimeTotals computes total count, derived-active count, and the
// lifetime revenue sum in a single query. Active means the stored status is
// active and expires_at is still in the future at the supplied instant.
func (r *Repository) WarrantyLifetimeTotals(ctx context.Context, shopID uuid.UUID, now time.Time) (*WarrantyLifetime, error) {
	var out WarrantyLifetime
	err := r.db.WithContext(ctx).
		Model(&models.Warranty{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? AND expires_at > ? THEN 1 ELSE 0 END), 0) AS active, "+
				"COALESCE(SUM(repair_cost), 0) AS revenue",
			"active", now,
		).
		Where("shop_id = ?", shopID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
