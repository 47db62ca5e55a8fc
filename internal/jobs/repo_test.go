package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	jobSheets := `
CREATE TABLE IF NOT EXISTS job_sheets (
  id TEXT PRIMARY KEY,
  shop_id TEXT NOT NULL,
  job_number TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_address TEXT,
  device_category TEXT NOT NULL,
  device_model TEXT NOT NULL,
  problem TEXT NOT NULL,
  accessories TEXT,
  technical_details TEXT,
  estimated_cost NUMERIC NOT NULL DEFAULT 0,
  advance_amount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'received',
  received_at DATETIME NOT NULL,
  expected_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (shop_id, job_number)
);`
	require.NoError(t, db.Exec(jobSheets).Error)

	t.Cleanup(func() {
		db.Exec("DROP TABLE IF EXISTS job_sheets")
	})

	return db
}

func makeJob(shopID uuid.UUID, number string, createdAt time.Time) *models.JobSheet {
	return &models.JobSheet{
		ID:             uuid.New(),
		ShopID:         shopID,
		JobNumber:      number,
		CustomerName:   "Alex Customer",
		CustomerPhone:  "+15550002222",
		DeviceCategory: enums.DeviceCategoryPhone,
		DeviceModel:    "Pixel 9",
		Problem:        "cracked screen",
		EstimatedCost:  decimal.NewFromInt(100),
		AdvanceAmount:  decimal.NewFromInt(20),
		Status:         enums.JobStatusReceived,
		ReceivedAt:     createdAt,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func TestRepositoryCreateAndFindScopedToShop(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shopID := uuid.New()
	job := makeJob(shopID, "JO-00001", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	found, err := repo.FindByID(ctx, shopID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "JO-00001", found.JobNumber)
	assert.Equal(t, enums.JobStatusReceived, found.Status)

	_, err = repo.FindByID(ctx, uuid.New(), job.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryJobNumberUniquePerShop(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shopA := uuid.New()
	shopB := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, makeJob(shopA, "JO-11111", now)))

	// same number in another shop is fine
	require.NoError(t, repo.Create(ctx, makeJob(shopB, "JO-11111", now)))

	// same number in the same shop violates the composite index
	err := repo.Create(ctx, makeJob(shopA, "JO-11111", now))
	require.Error(t, err)

	exists, err := repo.JobNumberExists(ctx, shopA, "JO-11111")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.JobNumberExists(ctx, shopA, "JO-99999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryListNewestFirstWithCursor(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shopID := uuid.New()
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		job := makeJob(shopID, "JO-0000"+string(rune('1'+i)), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, job))
	}

	page, err := repo.List(ctx, shopID, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	cursor := &pagination.Cursor{CreatedAt: page[1].CreatedAt, ID: page[1].ID}
	rest, err := repo.List(ctx, shopID, 2, cursor)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.True(t, page[1].CreatedAt.After(rest[0].CreatedAt))
}

func TestRepositoryDelete(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	shopID := uuid.New()
	job := makeJob(shopID, "JO-22222", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, job))

	// wrong shop cannot delete
	err := repo.Delete(ctx, uuid.New(), job.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, shopID, job.ID))

	_, err = repo.FindByID(ctx, shopID, job.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
