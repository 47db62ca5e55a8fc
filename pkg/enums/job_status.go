package enums

import "fmt"

// JobStatus tracks the lifecycle of a repair job sheet.
type JobStatus string

const (
	JobStatusReceived   JobStatus = "received"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusReady      JobStatus = "ready"
	JobStatusDelivered  JobStatus = "delivered"
	JobStatusCancelled  JobStatus = "cancelled"
)

var validJobStatuses = []JobStatus{
	JobStatusReceived,
	JobStatusInProgress,
	JobStatusReady,
	JobStatusDelivered,
	JobStatusCancelled,
}

// jobStatusTransitions enumerates the allowed forward moves. Cancellation is
// reachable from any non-terminal state; delivered and cancelled are terminal.
var jobStatusTransitions = map[JobStatus][]JobStatus{
	JobStatusReceived:   {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusReady, JobStatusCancelled},
	JobStatusReady:      {JobStatusDelivered, JobStatusCancelled},
	JobStatusDelivered:  {},
	JobStatusCancelled:  {},
}

// String implements fmt.Stringer.
func (j JobStatus) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobStatus.
func (j JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == j {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (j JobStatus) IsTerminal() bool {
	return j == JobStatusDelivered || j == JobStatusCancelled
}

// CanTransitionTo reports whether moving from j to target is allowed.
// Writing the current status again is treated as a permitted no-op.
func (j JobStatus) CanTransitionTo(target JobStatus) bool {
	if j == target {
		return true
	}
	for _, candidate := range jobStatusTransitions[j] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseJobStatus converts raw input into a JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
