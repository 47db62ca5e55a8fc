package models

import (
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/google/uuid"
)

// WorkerAssignment is the live current-state row tying a worker to a job.
// It is the authoritative read path for "who is on this job right now";
// the event log below is the audit trail.
type WorkerAssignment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID     uuid.UUID `gorm:"column:job_id;type:uuid;not null;uniqueIndex:idx_worker_assignments_job_worker"`
	WorkerID  uuid.UUID `gorm:"column:worker_id;type:uuid;not null;uniqueIndex:idx_worker_assignments_job_worker"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// AssignmentEvent is an append-only audit record. Rows are never updated or
// deleted; the current assignment set equals assigned minus removed, but the
// live table above avoids replaying history on every read.
type AssignmentEvent struct {
	ID         uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID      uuid.UUID                 `gorm:"column:job_id;type:uuid;not null;index"`
	WorkerID   uuid.UUID                 `gorm:"column:worker_id;type:uuid;not null"`
	Event      enums.AssignmentEventType `gorm:"column:event;type:text;not null"`
	ActorID    uuid.UUID                 `gorm:"column:actor_id;type:uuid;not null"`
	OccurredAt time.Time                 `gorm:"column:occurred_at;not null"`
}
