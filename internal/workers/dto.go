package workers

import (
	"time"

	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
)

// WorkerDTO exposes a staff member to the owning shop.
type WorkerDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignmentDTO is one live worker-on-job row, joined with the worker name.
type AssignmentDTO struct {
	WorkerID   uuid.UUID `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	AssignedAt time.Time `json:"assigned_at"`
}

// AssignmentEventDTO is one entry of the append-only audit log.
type AssignmentEventDTO struct {
	ID         uuid.UUID                 `json:"id"`
	WorkerID   uuid.UUID                 `json:"worker_id"`
	WorkerName string                    `json:"worker_name"`
	Event      enums.AssignmentEventType `json:"event"`
	ActorID    uuid.UUID                 `json:"actor_id"`
	OccurredAt time.Time                 `json:"occurred_at"`
}

// CreateWorkerInput captures the fields needed to register a worker.
type CreateWorkerInput struct {
	Name  string
	Phone *string
}

// UpdateWorkerInput captures the mutable worker fields.
type UpdateWorkerInput struct {
	Name   *string
	Phone  *string
	Active *bool
}

// FromModel maps a persisted worker into a DTO.
func FromModel(m *models.Worker) *WorkerDTO {
	if m == nil {
		return nil
	}
	return &WorkerDTO{
		ID:        m.ID,
		Name:      m.Name,
		Phone:     m.Phone,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
