package models

import (
	"time"

	"github.com/google/uuid"
)

// Worker is a staff member of a shop who can be assigned to job sheets.
type Worker struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Phone     *string   `gorm:"column:phone"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
