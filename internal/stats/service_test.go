package stats

import (
	"context"
	"testing"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/config"
	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubStatsRepo struct {
	statusCounts   []StatusCount
	categoryCounts []CategoryCount
	issueRows      []WarrantyIssueRow
	lifetime       WarrantyLifetime
}

func (s *stubStatsRepo) JobStatusCounts(ctx context.Context, shopID uuid.UUID) ([]StatusCount, error) {
	return s.statusCounts, nil
}

func (s *stubStatsRepo) DeviceCategoryCounts(ctx context.Context, shopID uuid.UUID) ([]CategoryCount, error) {
	return s.categoryCounts, nil
}

func (s *stubStatsRepo) WarrantyIssueRows(ctx context.Context, shopID uuid.UUID, since time.Time) ([]WarrantyIssueRow, error) {
	var out []WarrantyIssueRow
	for _, row := range s.issueRows {
		if !row.IssuedAt.Before(since) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubStatsRepo) WarrantyLifetimeTotals(ctx context.Context, shopID uuid.UUID, now time.Time) (*WarrantyLifetime, error) {
	lifetime := s.lifetime
	return &lifetime, nil
}

type stubStatsShops struct {
	shops map[uuid.UUID]*models.Shop
}

func (s *stubStatsShops) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, ok := s.shops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *shop
	return &cpy, nil
}

func testStatsService(t *testing.T, repo *stubStatsRepo, now time.Time) (Service, *stubStatsShops) {
	t.Helper()
	shops := &stubStatsShops{shops: map[uuid.UUID]*models.Shop{}}
	svc, err := NewService(repo, shops)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }
	return svc, shops
}

func seedStatsShop(shops *stubStatsShops, pinHash *string) uuid.UUID {
	id := uuid.New()
	shops.shops[id] = &models.Shop{ID: id, ShopName: "Acme Repairs", AccessPinHash: pinHash}
	return id
}

func hashPin(t *testing.T, pin string) *string {
	t.Helper()
	hash, err := security.HashSecret(pin, config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return &hash
}

func TestJobCountsIncludesCancelled(t *testing.T) {
	repo := &stubStatsRepo{statusCounts: []StatusCount{
		{Status: "received", Count: 3},
		{Status: "in_progress", Count: 2},
		{Status: "delivered", Count: 4},
		{Status: "cancelled", Count: 1},
	}}
	svc, shops := testStatsService(t, repo, time.Now().UTC())
	shopID := seedStatsShop(shops, nil)

	dto, err := svc.JobCounts(context.Background(), shopID)
	if err != nil {
		t.Fatalf("job counts: %v", err)
	}
	if dto.Received != 3 || dto.InProgress != 2 || dto.Delivered != 4 || dto.Cancelled != 1 {
		t.Fatalf("unexpected counts: %+v", dto)
	}
	if dto.Total != 10 {
		t.Fatalf("expected total 10, got %d", dto.Total)
	}
}

func TestJobCountsRejectsMissingShopScope(t *testing.T) {
	svc, _ := testStatsService(t, &stubStatsRepo{}, time.Now().UTC())

	_, err := svc.JobCounts(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWarrantyTotalsBucketsAreCalendarAligned(t *testing.T) {
	// Thursday 2025-06-19. Current ISO week starts Monday 2025-06-16,
	// current month on 2025-06-01.
	now := time.Date(2025, 6, 19, 15, 0, 0, 0, time.UTC)
	repo := &stubStatsRepo{
		lifetime: WarrantyLifetime{Total: 3, Active: 2, Revenue: decimal.NewFromInt(300)},
		issueRows: []WarrantyIssueRow{
			{IssuedAt: time.Date(2025, 6, 17, 10, 0, 0, 0, time.UTC), RepairCost: decimal.NewFromInt(100)},
			{IssuedAt: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), RepairCost: decimal.NewFromInt(50)},
			{IssuedAt: time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC), RepairCost: decimal.NewFromInt(25)},
		},
	}
	svc, shops := testStatsService(t, repo, now)
	shopID := seedStatsShop(shops, nil)

	dto, err := svc.WarrantyTotals(context.Background(), shopID, "")
	if err != nil {
		t.Fatalf("warranty totals: %v", err)
	}

	if len(dto.Weekly) != weeklyBucketCount || len(dto.Monthly) != monthlyBucketCount {
		t.Fatalf("unexpected series lengths: %d weekly, %d monthly", len(dto.Weekly), len(dto.Monthly))
	}

	// only June issues count toward the current month
	if dto.MonthRevenue.StringFixed(2) != "150.00" {
		t.Fatalf("expected month revenue 150.00, got %s", dto.MonthRevenue.StringFixed(2))
	}
	if dto.LifetimeRevenue.StringFixed(2) != "300.00" {
		t.Fatalf("expected lifetime revenue 300.00, got %s", dto.LifetimeRevenue.StringFixed(2))
	}

	// each record lands in exactly one weekly bucket
	currentWeek := dto.Weekly[len(dto.Weekly)-1]
	if !currentWeek.Start.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected current week to start Monday June 16, got %s", currentWeek.Start)
	}
	if currentWeek.Count != 1 || currentWeek.Revenue.StringFixed(2) != "100.00" {
		t.Fatalf("unexpected current week bucket: %+v", currentWeek)
	}

	var totalWeeklyCount int64
	for _, bucket := range dto.Weekly {
		totalWeeklyCount += bucket.Count
	}
	if totalWeeklyCount != 3 {
		t.Fatalf("expected every issue in exactly one weekly bucket, got %d placements", totalWeeklyCount)
	}

	// monthly buckets split May and June
	mayBucket := dto.Monthly[len(dto.Monthly)-2]
	juneBucket := dto.Monthly[len(dto.Monthly)-1]
	if mayBucket.Count != 1 || mayBucket.Revenue.StringFixed(2) != "25.00" {
		t.Fatalf("unexpected May bucket: %+v", mayBucket)
	}
	if juneBucket.Count != 2 || juneBucket.Revenue.StringFixed(2) != "150.00" {
		t.Fatalf("unexpected June bucket: %+v", juneBucket)
	}
}

func TestWarrantyTotalsZeroesRevenueBehindPin(t *testing.T) {
	now := time.Date(2025, 6, 19, 15, 0, 0, 0, time.UTC)
	repo := &stubStatsRepo{
		lifetime: WarrantyLifetime{Total: 2, Active: 1, Revenue: decimal.NewFromInt(500)},
		issueRows: []WarrantyIssueRow{
			{IssuedAt: now.AddDate(0, 0, -1), RepairCost: decimal.NewFromInt(500)},
		},
	}
	svc, shops := testStatsService(t, repo, now)
	shopID := seedStatsShop(shops, hashPin(t, "4321"))

	// no pin supplied: counts visible, revenue zeroed
	locked, err := svc.WarrantyTotals(context.Background(), shopID, "")
	if err != nil {
		t.Fatalf("warranty totals: %v", err)
	}
	if !locked.HasAccessPin || locked.RevenueVisible {
		t.Fatalf("expected locked payload, got %+v", locked)
	}
	if locked.Total != 2 || locked.Active != 1 {
		t.Fatalf("counts must stay visible: %+v", locked)
	}
	if !locked.LifetimeRevenue.IsZero() || !locked.MonthRevenue.IsZero() {
		t.Fatalf("revenue should be zeroed: %+v", locked)
	}
	for _, bucket := range locked.Weekly {
		if !bucket.Revenue.IsZero() {
			t.Fatalf("bucket revenue leaked: %+v", bucket)
		}
	}

	// wrong pin stays locked
	wrong, err := svc.WarrantyTotals(context.Background(), shopID, "0000")
	if err != nil {
		t.Fatalf("warranty totals: %v", err)
	}
	if wrong.RevenueVisible || !wrong.LifetimeRevenue.IsZero() {
		t.Fatalf("wrong pin must not unlock revenue: %+v", wrong)
	}

	// correct pin unlocks
	unlocked, err := svc.WarrantyTotals(context.Background(), shopID, "4321")
	if err != nil {
		t.Fatalf("warranty totals: %v", err)
	}
	if !unlocked.RevenueVisible || unlocked.LifetimeRevenue.StringFixed(2) != "500.00" {
		t.Fatalf("correct pin should unlock revenue: %+v", unlocked)
	}
}

func TestJobDistributionPercentages(t *testing.T) {
	repo := &stubStatsRepo{categoryCounts: []CategoryCount{
		{Category: "phone", Count: 2},
		{Category: "laptop", Count: 1},
		{Category: "tablet", Count: 1},
	}}
	svc, shops := testStatsService(t, repo, time.Now().UTC())
	shopID := seedStatsShop(shops, nil)

	entries, err := svc.JobDistribution(context.Background(), shopID)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}

	sum := 0
	byLabel := map[string]DistributionEntry{}
	for _, entry := range entries {
		sum += entry.Value
		byLabel[entry.Label] = entry
		if entry.Color == "" {
			t.Fatalf("missing color for %s", entry.Label)
		}
	}
	if byLabel["phone"].Value != 50 || byLabel["laptop"].Value != 25 {
		t.Fatalf("unexpected percentages: %+v", byLabel)
	}
	// rounding keeps the total within one point of 100
	if sum < 99 || sum > 101 {
		t.Fatalf("percentages should sum to ~100, got %d", sum)
	}
}

func TestJobDistributionEmptyShopIsAllZero(t *testing.T) {
	svc, shops := testStatsService(t, &stubStatsRepo{}, time.Now().UTC())
	shopID := seedStatsShop(shops, nil)

	entries, err := svc.JobDistribution(context.Background(), shopID)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected the full category list")
	}
	for _, entry := range entries {
		if entry.Value != 0 || entry.Count != 0 {
			t.Fatalf("expected all-zero entries, got %+v", entry)
		}
	}
}
