package stats

import (
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/types"
)

// JobCountsDTO is the per-status breakdown of a shop's job sheets.
// Cancelled is reported explicitly alongside the four working states.
type JobCountsDTO struct {
	Received   int64 `json:"received"`
	InProgress int64 `json:"in_progress"`
	Ready      int64 `json:"ready"`
	Delivered  int64 `json:"delivered"`
	Cancelled  int64 `json:"cancelled"`
	Total      int64 `json:"total"`
}

// RevenueBucket is one calendar-aligned point in a chart series.
type RevenueBucket struct {
	Label   string       `json:"label"`
	Start   time.Time    `json:"start"`
	Count   int64        `json:"count"`
	Revenue types.Amount `json:"revenue"`
}

// WarrantyTotalsDTO aggregates a shop's warranty figures. Revenue fields are
// zeroed when the shop has an access PIN and the caller has not verified it.
type WarrantyTotalsDTO struct {
	Total           int64           `json:"total"`
	Active          int64           `json:"active"`
	LifetimeRevenue types.Amount    `json:"lifetime_revenue"`
	MonthRevenue    types.Amount    `json:"month_revenue"`
	Weekly          []RevenueBucket `json:"weekly"`
	Monthly         []RevenueBucket `json:"monthly"`
	HasAccessPin    bool            `json:"has_access_pin"`
	RevenueVisible  bool            `json:"revenue_visible"`
}

// DistributionEntry is one slice of the device-category pie chart.
// Value is a whole-number percentage; Count is the raw tally.
type DistributionEntry struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}
