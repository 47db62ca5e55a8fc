package models

import (
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/google/uuid"
)

// Shop represents the canonical tenant model: one repair business.
type Shop struct {
	ID                 uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email              string                   `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash       *string                  `gorm:"column:password_hash"`
	Phone              string                   `gorm:"column:phone;not null;uniqueIndex"`
	ShopName           string                   `gorm:"column:shop_name;not null"`
	OwnerName          string                   `gorm:"column:owner_name;not null"`
	Role               enums.ShopRole           `gorm:"column:role;type:text;not null;default:'normal'"`
	Verified           bool                     `gorm:"column:verified;not null;default:false"`
	SubscriptionStatus enums.SubscriptionStatus `gorm:"column:subscription_status;type:text;not null;default:'free_trial'"`
	SubscriptionEndsAt *time.Time               `gorm:"column:subscription_ends_at"`
	AccessPinHash      *string                  `gorm:"column:access_pin_hash"`
	Category           *string                  `gorm:"column:category"`
	Address            *string                  `gorm:"column:address"`
	LastLoginAt        *time.Time               `gorm:"column:last_login_at"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
