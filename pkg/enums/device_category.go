package enums

import "fmt"

// DeviceCategory classifies the device on a job sheet and selects which
// technical details section applies.
type DeviceCategory string

const (
	DeviceCategoryPhone     DeviceCategory = "phone"
	DeviceCategoryLaptop    DeviceCategory = "laptop"
	DeviceCategoryTablet    DeviceCategory = "tablet"
	DeviceCategoryDesktop   DeviceCategory = "desktop"
	DeviceCategoryAppliance DeviceCategory = "appliance"
	DeviceCategoryWearable  DeviceCategory = "wearable"
	DeviceCategoryOther     DeviceCategory = "other"
)

var validDeviceCategories = []DeviceCategory{
	DeviceCategoryPhone,
	DeviceCategoryLaptop,
	DeviceCategoryTablet,
	DeviceCategoryDesktop,
	DeviceCategoryAppliance,
	DeviceCategoryWearable,
	DeviceCategoryOther,
}

// DeviceCategories returns every known category in display order.
func DeviceCategories() []DeviceCategory {
	out := make([]DeviceCategory, len(validDeviceCategories))
	copy(out, validDeviceCategories)
	return out
}

// String implements fmt.Stringer.
func (d DeviceCategory) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeviceCategory.
func (d DeviceCategory) IsValid() bool {
	for _, candidate := range validDeviceCategories {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeviceCategory converts raw input into a DeviceCategory.
func ParseDeviceCategory(value string) (DeviceCategory, error) {
	for _, candidate := range validDeviceCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid device category %q", value)
}
