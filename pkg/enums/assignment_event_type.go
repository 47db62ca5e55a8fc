package enums

import "fmt"

// AssignmentEventType labels entries in the append-only worker assignment log.
type AssignmentEventType string

const (
	AssignmentEventAssigned AssignmentEventType = "assigned"
	AssignmentEventRemoved  AssignmentEventType = "removed"
)

var validAssignmentEventTypes = []AssignmentEventType{
	AssignmentEventAssigned,
	AssignmentEventRemoved,
}

// String implements fmt.Stringer.
func (a AssignmentEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssignmentEventType.
func (a AssignmentEventType) IsValid() bool {
	for _, candidate := range validAssignmentEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssignmentEventType converts raw input into an AssignmentEventType.
func ParseAssignmentEventType(value string) (AssignmentEventType, error) {
	for _, candidate := range validAssignmentEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment event type %q", value)
}
