package workers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db"
	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type workerRepository interface {
	Create(ctx context.Context, worker *models.Worker) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Worker, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Worker, error)
	List(ctx context.Context, shopID uuid.UUID) ([]models.Worker, error)
	Update(ctx context.Context, worker *models.Worker) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	CreateAssignment(ctx context.Context, assignment *models.WorkerAssignment) error
	DeleteAssignment(ctx context.Context, jobID, workerID uuid.UUID) error
	ListAssignments(ctx context.Context, jobID uuid.UUID) ([]models.WorkerAssignment, error)
	AppendEvent(ctx context.Context, event *models.AssignmentEvent) error
	ListEvents(ctx context.Context, jobID uuid.UUID) ([]models.AssignmentEvent, error)
}

type jobLookup interface {
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.JobSheet, error)
}

// Service exposes worker CRUD and job assignment operations.
type Service interface {
	Create(ctx context.Context, shopID uuid.UUID, input CreateWorkerInput) (*WorkerDTO, error)
	Get(ctx context.Context, shopID, workerID uuid.UUID) (*WorkerDTO, error)
	List(ctx context.Context, shopID uuid.UUID) ([]WorkerDTO, error)
	Update(ctx context.Context, shopID, workerID uuid.UUID, input UpdateWorkerInput) (*WorkerDTO, error)
	Delete(ctx context.Context, shopID, workerID uuid.UUID) error
	Assign(ctx context.Context, shopID, jobID, workerID, actorID uuid.UUID) error
	Remove(ctx context.Context, shopID, jobID, workerID, actorID uuid.UUID) error
	Assignments(ctx context.Context, shopID, jobID uuid.UUID) ([]AssignmentDTO, error)
	History(ctx context.Context, shopID, jobID uuid.UUID) ([]AssignmentEventDTO, error)
}

type service struct {
	repo workerRepository
	jobs jobLookup
	now  func() time.Time
}

// NewService builds a worker service with the provided repositories.
func NewService(repo workerRepository, jobs jobLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("worker repository required")
	}
	if jobs == nil {
		return nil, fmt.Errorf("job lookup required")
	}
	return &service{repo: repo, jobs: jobs, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Create(ctx context.Context, shopID uuid.UUID, input CreateWorkerInput) (*WorkerDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker name is required")
	}

	worker := &models.Worker{
		ShopID: shopID,
		Name:   name,
		Phone:  input.Phone,
		Active: true,
	}
	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create worker")
	}
	return FromModel(worker), nil
}

func (s *service) Get(ctx context.Context, shopID, workerID uuid.UUID) (*WorkerDTO, error) {
	worker, err := s.loadWorker(ctx, shopID, workerID)
	if err != nil {
		return nil, err
	}
	return FromModel(worker), nil
}

func (s *service) List(ctx context.Context, shopID uuid.UUID) ([]WorkerDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	rows, err := s.repo.List(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workers")
	}
	dtos := make([]WorkerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, shopID, workerID uuid.UUID, input UpdateWorkerInput) (*WorkerDTO, error) {
	worker, err := s.loadWorker(ctx, shopID, workerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker name is required")
		}
		worker.Name = name
	}
	if input.Phone != nil {
		worker.Phone = input.Phone
	}
	if input.Active != nil {
		worker.Active = *input.Active
	}

	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update worker")
	}
	return FromModel(worker), nil
}

func (s *service) Delete(ctx context.Context, shopID, workerID uuid.UUID) error {
	if shopID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	if err := s.repo.Delete(ctx, shopID, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete worker")
	}
	return nil
}

// Assign puts a worker on a job. It writes the live assignment row and
// appends an audit event. A worker already on the job is a conflict.
func (s *service) Assign(ctx context.Context, shopID, jobID, workerID, actorID uuid.UUID) error {
	job, worker, err := s.loadPair(ctx, shopID, jobID, workerID)
	if err != nil {
		return err
	}

	assignment := &models.WorkerAssignment{JobID: job.ID, WorkerID: worker.ID}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		if db.IsUniqueViolation(err, "idx_worker_assignments_job_worker") {
			return pkgerrors.New(pkgerrors.CodeConflict, "worker already assigned to this job")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
	}

	return s.appendEvent(ctx, job.ID, worker.ID, actorID, enums.AssignmentEventAssigned)
}

// Remove takes a worker off a job. The live row is deleted; the audit log
// keeps both the assignment and the removal.
func (s *service) Remove(ctx context.Context, shopID, jobID, workerID, actorID uuid.UUID) error {
	job, worker, err := s.loadPair(ctx, shopID, jobID, workerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAssignment(ctx, job.ID, worker.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "worker is not assigned to this job")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assignment")
	}

	return s.appendEvent(ctx, job.ID, worker.ID, actorID, enums.AssignmentEventRemoved)
}

func (s *service) Assignments(ctx context.Context, shopID, jobID uuid.UUID) ([]AssignmentDTO, error) {
	job, err := s.loadJob(ctx, shopID, jobID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAssignments(ctx, job.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignments")
	}

	names, err := s.workerNames(ctx, workerIDsFromAssignments(rows))
	if err != nil {
		return nil, err
	}

	dtos := make([]AssignmentDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, AssignmentDTO{
			WorkerID:   row.WorkerID,
			WorkerName: names[row.WorkerID],
			AssignedAt: row.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *service) History(ctx context.Context, shopID, jobID uuid.UUID) ([]AssignmentEventDTO, error) {
	job, err := s.loadJob(ctx, shopID, jobID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListEvents(ctx, job.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list assignment events")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.WorkerID)
	}
	names, err := s.workerNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	dtos := make([]AssignmentEventDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, AssignmentEventDTO{
			ID:         row.ID,
			WorkerID:   row.WorkerID,
			WorkerName: names[row.WorkerID],
			Event:      row.Event,
			ActorID:    row.ActorID,
			OccurredAt: row.OccurredAt,
		})
	}
	return dtos, nil
}

func (s *service) appendEvent(ctx context.Context, jobID, workerID, actorID uuid.UUID, event enums.AssignmentEventType) error {
	record := &models.AssignmentEvent{
		JobID:      jobID,
		WorkerID:   workerID,
		Event:      event,
		ActorID:    actorID,
		OccurredAt: s.now(),
	}
	if err := s.repo.AppendEvent(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append assignment event")
	}
	return nil
}

func (s *service) loadPair(ctx context.Context, shopID, jobID, workerID uuid.UUID) (*models.JobSheet, *models.Worker, error) {
	job, err := s.loadJob(ctx, shopID, jobID)
	if err != nil {
		return nil, nil, err
	}
	worker, err := s.loadWorker(ctx, shopID, workerID)
	if err != nil {
		return nil, nil, err
	}
	return job, worker, nil
}

func (s *service) loadJob(ctx context.Context, shopID, jobID uuid.UUID) (*models.JobSheet, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	job, err := s.jobs.FindByID(ctx, shopID, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	return job, nil
}

func (s *service) loadWorker(ctx context.Context, shopID, workerID uuid.UUID) (*models.Worker, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	worker, err := s.repo.FindByID(ctx, shopID, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker")
	}
	return worker, nil
}

func (s *service) workerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	rows, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load worker names")
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func workerIDsFromAssignments(rows []models.WorkerAssignment) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.WorkerID)
	}
	return ids
}
