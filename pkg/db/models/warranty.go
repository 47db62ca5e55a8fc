package models

import (
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Warranty is a customer-facing certificate. The stored status is written once
// at issuance; read paths derive the effective status from expires_at.
type Warranty struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID          uuid.UUID            `gorm:"column:shop_id;type:uuid;not null;index"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null"`
	CustomerAddress *string              `gorm:"column:customer_address"`
	DeviceModel     string               `gorm:"column:device_model;not null"`
	RepairType      string               `gorm:"column:repair_type;not null"`
	RepairCost      decimal.Decimal      `gorm:"column:repair_cost;type:numeric(12,2);not null;default:0"`
	ShortCode       string               `gorm:"column:short_code;not null;uniqueIndex"`
	IssuedAt        time.Time            `gorm:"column:issued_at;not null"`
	ExpiresAt       time.Time            `gorm:"column:expires_at;not null"`
	Status          enums.WarrantyStatus `gorm:"column:status;type:text;not null;default:'active'"`
	PrivateNote     *string              `gorm:"column:private_note"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
