package warranties

import (
	"time"

	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
)

// WarrantyDTO exposes a warranty to its owning shop. Status is always the
// derived value, never the raw stored column.
type WarrantyDTO struct {
	ID              uuid.UUID            `json:"id"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress *string              `json:"customer_address,omitempty"`
	DeviceModel     string               `json:"device_model"`
	RepairType      string               `json:"repair_type"`
	RepairCost      types.Amount         `json:"repair_cost"`
	ShortCode       string               `json:"short_code"`
	IssuedAt        time.Time            `json:"issued_at"`
	ExpiresAt       time.Time            `json:"expires_at"`
	Status          enums.WarrantyStatus `json:"status"`
	PrivateNote     *string              `json:"private_note,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// PublicWarrantyDTO is the customer-facing verification projection. The
// private note has no field here at all, so it can never leak through this
// path.
type PublicWarrantyDTO struct {
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress *string              `json:"customer_address,omitempty"`
	DeviceModel     string               `json:"device_model"`
	RepairType      string               `json:"repair_type"`
	RepairCost      types.Amount         `json:"repair_cost"`
	ShortCode       string               `json:"short_code"`
	IssuedAt        time.Time            `json:"issued_at"`
	ExpiresAt       time.Time            `json:"expires_at"`
	Status          enums.WarrantyStatus `json:"status"`
	ShopName        string               `json:"shop_name"`
	ShopCategory    *string              `json:"shop_category,omitempty"`
}

// IssueWarrantyInput captures the data required to issue a certificate.
type IssueWarrantyInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerAddress *string
	DeviceModel     string
	RepairType      string
	RepairCost      types.Amount
	DurationDays    int
	PrivateNote     *string
	IssuedAt        *time.Time
}

// UpdateWarrantyInput captures the mutable warranty fields.
type UpdateWarrantyInput struct {
	CustomerName    *string
	CustomerPhone   *string
	CustomerAddress *string
	DeviceModel     *string
	RepairType      *string
	PrivateNote     *string
}

// FromModel maps a persisted warranty into a DTO, deriving the effective
// status at the supplied instant.
func FromModel(m *models.Warranty, now time.Time) *WarrantyDTO {
	if m == nil {
		return nil
	}
	return &WarrantyDTO{
		ID:              m.ID,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		CustomerAddress: m.CustomerAddress,
		DeviceModel:     m.DeviceModel,
		RepairType:      m.RepairType,
		RepairCost:      types.NewAmount(m.RepairCost),
		ShortCode:       m.ShortCode,
		IssuedAt:        m.IssuedAt,
		ExpiresAt:       m.ExpiresAt,
		Status:          enums.DeriveWarrantyStatus(m.Status, m.ExpiresAt, now),
		PrivateNote:     m.PrivateNote,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
