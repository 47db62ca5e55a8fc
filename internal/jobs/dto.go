package jobs

import (
	"time"

	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
)

// JobSheetDTO exposes a job sheet in API responses.
type JobSheetDTO struct {
	ID               uuid.UUID               `json:"id"`
	JobNumber        string                  `json:"job_number"`
	CustomerName     string                  `json:"customer_name"`
	CustomerPhone    string                  `json:"customer_phone"`
	CustomerAddress  *string                 `json:"customer_address,omitempty"`
	DeviceCategory   enums.DeviceCategory    `json:"device_category"`
	DeviceModel      string                  `json:"device_model"`
	Problem          string                  `json:"problem"`
	Accessories      *string                 `json:"accessories,omitempty"`
	TechnicalDetails *types.TechnicalDetails `json:"technical_details,omitempty"`
	EstimatedCost    types.Amount            `json:"estimated_cost"`
	AdvanceAmount    types.Amount            `json:"advance_amount"`
	Status           enums.JobStatus         `json:"status"`
	ReceivedAt       time.Time               `json:"received_at"`
	ExpectedAt       *time.Time              `json:"expected_at,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ShopSummary is attached to admin job listings.
type ShopSummary struct {
	ID       uuid.UUID `json:"id"`
	ShopName string    `json:"shop_name"`
	Category *string   `json:"category,omitempty"`
}

// AdminJobDTO is a job sheet with its owning shop, for cross-tenant listings.
type AdminJobDTO struct {
	JobSheetDTO
	Shop ShopSummary `json:"shop"`
}

// CreateJobInput captures intake data for a new job sheet.
type CreateJobInput struct {
	CustomerName     string
	CustomerPhone    string
	CustomerAddress  *string
	DeviceCategory   string
	DeviceModel      string
	Problem          string
	Accessories      *string
	TechnicalDetails *types.TechnicalDetails
	EstimatedCost    types.Amount
	AdvanceAmount    types.Amount
	ReceivedAt       *time.Time
	ExpectedAt       *time.Time
}

// UpdateJobInput captures the mutable job sheet fields. Status changes go
// through UpdateStatus exclusively.
type UpdateJobInput struct {
	CustomerName     *string
	CustomerPhone    *string
	CustomerAddress  *string
	DeviceModel      *string
	Problem          *string
	Accessories      *string
	TechnicalDetails *types.TechnicalDetails
	EstimatedCost    *types.Amount
	AdvanceAmount    *types.Amount
	ExpectedAt       *time.Time
}

// FromModel maps a persisted job sheet into a DTO.
func FromModel(m *models.JobSheet) *JobSheetDTO {
	if m == nil {
		return nil
	}
	return &JobSheetDTO{
		ID:               m.ID,
		JobNumber:        m.JobNumber,
		CustomerName:     m.CustomerName,
		CustomerPhone:    m.CustomerPhone,
		CustomerAddress:  m.CustomerAddress,
		DeviceCategory:   m.DeviceCategory,
		DeviceModel:      m.DeviceModel,
		Problem:          m.Problem,
		Accessories:      m.Accessories,
		TechnicalDetails: m.TechnicalDetails,
		EstimatedCost:    types.NewAmount(m.EstimatedCost),
		AdvanceAmount:    types.NewAmount(m.AdvanceAmount),
		Status:           m.Status,
		ReceivedAt:       m.ReceivedAt,
		ExpectedAt:       m.ExpectedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
