package models

import (
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JobSheet is a repair intake record owned by exactly one shop.
type JobSheet struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID           uuid.UUID               `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_job_sheets_shop_number,priority:1"`
	JobNumber        string                  `gorm:"column:job_number;not null;uniqueIndex:idx_job_sheets_shop_number,priority:2"`
	CustomerName     string                  `gorm:"column:customer_name;not null"`
	CustomerPhone    string                  `gorm:"column:customer_phone;not null"`
	CustomerAddress  *string                 `gorm:"column:customer_address"`
	DeviceCategory   enums.DeviceCategory    `gorm:"column:device_category;type:text;not null"`
	DeviceModel      string                  `gorm:"column:device_model;not null"`
	Problem          string                  `gorm:"column:problem;not null"`
	Accessories      *string                 `gorm:"column:accessories"`
	TechnicalDetails *types.TechnicalDetails `gorm:"column:technical_details;type:jsonb;serializer:json"`
	EstimatedCost    decimal.Decimal         `gorm:"column:estimated_cost;type:numeric(12,2);not null;default:0"`
	AdvanceAmount    decimal.Decimal         `gorm:"column:advance_amount;type:numeric(12,2);not null;default:0"`
	Status           enums.JobStatus         `gorm:"column:status;type:text;not null;default:'received'"`
	ReceivedAt       time.Time               `gorm:"column:received_at;not null"`
	ExpectedAt       *time.Time              `gorm:"column:expected_at"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
