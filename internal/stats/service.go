package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/security"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	weeklyBucketCount  = 8
	monthlyBucketCount = 6
)

// categoryColors fixes chart colors per device category so slices keep their
// color across reloads.
var categoryColors = map[enums.DeviceCategory]string{
	enums.DeviceCategoryPhone:     "#3B82F6",
	enums.DeviceCategoryLaptop:    "#10B981",
	enums.DeviceCategoryTablet:    "#F59E0B",
	enums.DeviceCategoryDesktop:   "#8B5CF6",
	enums.DeviceCategoryAppliance: "#EF4444",
	enums.DeviceCategoryWearable:  "#14B8A6",
	enums.DeviceCategoryOther:     "#6B7280",
}

type statsRepository interface {
	JobStatusCounts(ctx context.Context, shopID uuid.UUID) ([]StatusCount, error)
	DeviceCategoryCounts(ctx context.Context, shopID uuid.UUID) ([]CategoryCount, error)
	WarrantyIssueRows(ctx context.Context, shopID uuid.UUID, since time.Time) ([]WarrantyIssueRow, error)
	WarrantyLifetimeTotals(ctx context.Context, shopID uuid.UUID, now time.Time) (*WarrantyLifetime, error)
}

type shopLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

// Service computes dashboard aggregations. All operations are read-only
// point-in-time reads; no snapshot isolation beyond a single query.
type Service interface {
	JobCounts(ctx context.Context, shopID uuid.UUID) (*JobCountsDTO, error)
	WarrantyTotals(ctx context.Context, shopID uuid.UUID, accessPin string) (*WarrantyTotalsDTO, error)
	JobDistribution(ctx context.Context, shopID uuid.UUID) ([]DistributionEntry, error)
}

type service struct {
	repo  statsRepository
	shops shopLookup
	now   func() time.Time
}

// NewService builds the aggregation service.
func NewService(repo statsRepository, shops shopLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop lookup required")
	}
	return &service{repo: repo, shops: shops, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) JobCounts(ctx context.Context, shopID uuid.UUID) (*JobCountsDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}

	rows, err := s.repo.JobStatusCounts(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count jobs by status")
	}

	var dto JobCountsDTO
	for _, row := range rows {
		switch enums.JobStatus(row.Status) {
		case enums.JobStatusReceived:
			dto.Received = row.Count
		case enums.JobStatusInProgress:
			dto.InProgress = row.Count
		case enums.JobStatusReady:
			dto.Ready = row.Count
		case enums.JobStatusDelivered:
			dto.Delivered = row.Count
		case enums.JobStatusCancelled:
			dto.Cancelled = row.Count
		}
		dto.Total += row.Count
	}
	return &dto, nil
}

// WarrantyTotals aggregates counts and revenue. Counts are always returned;
// revenue figures are zeroed when the shop has an access PIN and the supplied
// pin does not verify against it.
func (s *service) WarrantyTotals(ctx context.Context, shopID uuid.UUID, accessPin string) (*WarrantyTotalsDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}

	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}

	hasPin := shop.AccessPinHash != nil && *shop.AccessPinHash != ""
	revenueVisible := !hasPin
	if hasPin && accessPin != "" {
		ok, verifyErr := security.VerifySecret(accessPin, *shop.AccessPinHash)
		if verifyErr == nil && ok {
			revenueVisible = true
		}
	}

	now := s.now()
	lifetime, err := s.repo.WarrantyLifetimeTotals(ctx, shopID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate warranties")
	}

	weekStarts := trailingWeekStarts(now, weeklyBucketCount)
	monthStarts := trailingMonthStarts(now, monthlyBucketCount)
	since := weekStarts[0]
	if monthStarts[0].Before(since) {
		since = monthStarts[0]
	}

	rows, err := s.repo.WarrantyIssueRows(ctx, shopID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warranty series")
	}

	weekly := newBucketSeries(weekStarts, "Jan 2")
	monthly := newBucketSeries(monthStarts, "Jan 2006")
	monthStart := startOfMonth(now)
	monthRevenue := decimal.Zero

	for _, row := range rows {
		issued := row.IssuedAt.UTC()
		if !issued.Before(monthStart) {
			monthRevenue = monthRevenue.Add(row.RepairCost)
		}
		addToBucket(weekly, startOfISOWeek(issued), row.RepairCost)
		addToBucket(monthly, startOfMonth(issued), row.RepairCost)
	}

	dto := &WarrantyTotalsDTO{
		Total:           lifetime.Total,
		Active:          lifetime.Active,
		LifetimeRevenue: types.NewAmount(lifetime.Revenue),
		MonthRevenue:    types.NewAmount(monthRevenue),
		Weekly:          weekly,
		Monthly:         monthly,
		HasAccessPin:    hasPin,
		RevenueVisible:  revenueVisible,
	}
	if !revenueVisible {
		zeroRevenue(dto)
	}
	return dto, nil
}

func (s *service) JobDistribution(ctx context.Context, shopID uuid.UUID) ([]DistributionEntry, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}

	rows, err := s.repo.DeviceCategoryCounts(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count jobs by category")
	}

	counts := make(map[enums.DeviceCategory]int64, len(rows))
	var total int64
	for _, row := range rows {
		counts[enums.DeviceCategory(row.Category)] += row.Count
		total += row.Count
	}

	entries := make([]DistributionEntry, 0, len(enums.DeviceCategories()))
	for _, category := range enums.DeviceCategories() {
		count := counts[category]
		value := 0
		if total > 0 {
			value = int(math.Round(100 * float64(count) / float64(total)))
		}
		entries = append(entries, DistributionEntry{
			Label: category.String(),
			Value: value,
			Count: count,
			Color: categoryColors[category],
		})
	}
	return entries, nil
}

func zeroRevenue(dto *WarrantyTotalsDTO) {
	dto.LifetimeRevenue = types.NewAmount(decimal.Zero)
	dto.MonthRevenue = types.NewAmount(decimal.Zero)
	for i := range dto.Weekly {
		dto.Weekly[i].Revenue = types.NewAmount(decimal.Zero)
	}
	for i := range dto.Monthly {
		dto.Monthly[i].Revenue = types.NewAmount(decimal.Zero)
	}
}

func newBucketSeries(starts []time.Time, labelLayout string) []RevenueBucket {
	buckets := make([]RevenueBucket, len(starts))
	for i, start := range starts {
		buckets[i] = RevenueBucket{
			Label:   start.Format(labelLayout),
			Start:   start,
			Revenue: types.NewAmount(decimal.Zero),
		}
	}
	return buckets
}

func addToBucket(buckets []RevenueBucket, start time.Time, cost decimal.Decimal) {
	for i := range buckets {
		if buckets[i].Start.Equal(start) {
			buckets[i].Count++
			buckets[i].Revenue = types.NewAmount(buckets[i].Revenue.Add(cost))
			return
		}
	}
}

// trailingWeekStarts returns the Monday 00:00 UTC start of the current ISO
// week and the n-1 weeks before it, oldest first.
func trailingWeekStarts(now time.Time, n int) []time.Time {
	current := startOfISOWeek(now)
	starts := make([]time.Time, n)
	for i := 0; i < n; i++ {
		starts[i] = current.AddDate(0, 0, -7*(n-1-i))
	}
	return starts
}

// trailingMonthStarts returns the first-of-month 00:00 UTC of the current
// month and the n-1 months before it, oldest first.
func trailingMonthStarts(now time.Time, n int) []time.Time {
	current := startOfMonth(now)
	starts := make([]time.Time, n)
	for i := 0; i < n; i++ {
		starts[i] = current.AddDate(0, -(n-1-i), 0)
	}
	return starts
}

func startOfISOWeek(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
