package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
)

// ShopDTO exposes safe tenant data in API responses.
type ShopDTO struct {
	ID                 uuid.UUID                `json:"id"`
	Email              string                   `json:"email"`
	Phone              string                   `json:"phone"`
	ShopName           string                   `json:"shop_name"`
	OwnerName          string                   `json:"owner_name"`
	Role               enums.ShopRole           `json:"role"`
	Verified           bool                     `json:"verified"`
	SubscriptionStatus enums.SubscriptionStatus `json:"subscription_status"`
	SubscriptionEndsAt *time.Time               `json:"subscription_ends_at,omitempty"`
	HasAccessPin       bool                     `json:"has_access_pin"`
	Category           *string                  `json:"category,omitempty"`
	Address            *string                  `json:"address,omitempty"`
	LastLoginAt        *time.Time               `json:"last_login_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// CreateShopDTO holds creation-time data for a new shop tenant.
type CreateShopDTO struct {
	Email              string
	PasswordHash       string
	Phone              string
	ShopName           string
	OwnerName          string
	Category           *string
	Address            *string
	SubscriptionEndsAt *time.Time
}

// FromModel maps the persisted shop into a DTO. The password and PIN hashes
// never leave the service layer.
func FromModel(m *models.Shop) *ShopDTO {
	if m == nil {
		return nil
	}

	return &ShopDTO{
		ID:                 m.ID,
		Email:              m.Email,
		Phone:              m.Phone,
		ShopName:           m.ShopName,
		OwnerName:          m.OwnerName,
		Role:               m.Role,
		Verified:           m.Verified,
		SubscriptionStatus: m.SubscriptionStatus,
		SubscriptionEndsAt: m.SubscriptionEndsAt,
		HasAccessPin:       m.AccessPinHash != nil && *m.AccessPinHash != "",
		Category:           m.Category,
		Address:            m.Address,
		LastLoginAt:        m.LastLoginAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateShopDTO) ToModel() *models.Shop {
	hash := c.PasswordHash
	return &models.Shop{
		Email:              c.Email,
		PasswordHash:       &hash,
		Phone:              c.Phone,
		ShopName:           c.ShopName,
		OwnerName:          c.OwnerName,
		Role:               enums.ShopRoleNormal,
		Verified:           false,
		SubscriptionStatus: enums.SubscriptionStatusFreeTrial,
		SubscriptionEndsAt: c.SubscriptionEndsAt,
		Category:           c.Category,
		Address:            c.Address,
	}
}
