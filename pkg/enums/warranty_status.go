package enums

import (
	"fmt"
	"time"
)

// WarrantyStatus is the stored certificate state. The stored value is written
// once at issuance; customer-facing reads derive the effective status from the
// expiry timestamp instead of trusting the column.
type WarrantyStatus string

const (
	WarrantyStatusActive  WarrantyStatus = "active"
	WarrantyStatusExpired WarrantyStatus = "expired"
)

var validWarrantyStatuses = []WarrantyStatus{
	WarrantyStatusActive,
	WarrantyStatusExpired,
}

// String implements fmt.Stringer.
func (w WarrantyStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WarrantyStatus.
func (w WarrantyStatus) IsValid() bool {
	for _, candidate := range validWarrantyStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWarrantyStatus converts raw input into a WarrantyStatus.
func ParseWarrantyStatus(value string) (WarrantyStatus, error) {
	for _, candidate := range validWarrantyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid warranty status %q", value)
}

// DeriveWarrantyStatus computes the display status at the given instant.
// A certificate past its expiry reads as expired regardless of the stored value.
func DeriveWarrantyStatus(stored WarrantyStatus, expiresAt time.Time, now time.Time) WarrantyStatus {
	if now.After(expiresAt) {
		return WarrantyStatusExpired
	}
	return stored
}
