package types

import "fmt"

// TechnicalDetails is the optional structured block on a job sheet. Exactly
// one section may be populated and it must match the job's device category.
type TechnicalDetails struct {
	Phone     *PhoneDetails     `json:"phone,omitempty"`
	Laptop    *ComputerDetails  `json:"laptop,omitempty"`
	Desktop   *ComputerDetails  `json:"desktop,omitempty"`
	Appliance *ApplianceDetails `json:"appliance,omitempty"`
}

// PhoneDetails captures intake state for phones, tablets, and wearables.
type PhoneDetails struct {
	IMEI           *string `json:"imei,omitempty"`
	LockType       *string `json:"lock_type,omitempty"`
	LockCode       *string `json:"lock_code,omitempty"`
	BatteryPercent *int    `json:"battery_percent,omitempty"`
	SIMPresent     *bool   `json:"sim_present,omitempty"`
}

// ComputerDetails captures intake state for laptops and desktops.
type ComputerDetails struct {
	SerialNumber *string `json:"serial_number,omitempty"`
	OS           *string `json:"os,omitempty"`
	RAM          *string `json:"ram,omitempty"`
	Storage      *string `json:"storage,omitempty"`
	ChargerGiven *bool   `json:"charger_given,omitempty"`
}

// ApplianceDetails captures intake state for household appliances.
type ApplianceDetails struct {
	SerialNumber  *string `json:"serial_number,omitempty"`
	PowerRating   *string `json:"power_rating,omitempty"`
	UnderOEMCover *bool   `json:"under_oem_cover,omitempty"`
}

// Validate checks that at most one section is set and that it matches the
// provided device category.
func (t *TechnicalDetails) Validate(category string) error {
	if t == nil {
		return nil
	}

	populated := 0
	var section string
	if t.Phone != nil {
		populated++
		section = "phone"
	}
	if t.Laptop != nil {
		populated++
		section = "laptop"
	}
	if t.Desktop != nil {
		populated++
		section = "desktop"
	}
	if t.Appliance != nil {
		populated++
		section = "appliance"
	}

	if populated == 0 {
		return nil
	}
	if populated > 1 {
		return fmt.Errorf("technical details may populate at most one section")
	}

	if !sectionAllowed(section, category) {
		return fmt.Errorf("technical details section %q does not match device category %q", section, category)
	}
	return nil
}

func sectionAllowed(section, category string) bool {
	switch section {
	case "phone":
		return category == "phone" || category == "tablet" || category == "wearable"
	case "laptop":
		return category == "laptop"
	case "desktop":
		return category == "desktop"
	case "appliance":
		return category == "appliance"
	}
	return false
}
