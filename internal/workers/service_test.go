package workers

import (
	"context"
	"testing"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubWorkerRepo struct {
	workers     map[uuid.UUID]*models.Worker
	assignments map[uuid.UUID]*models.WorkerAssignment
	events      []models.AssignmentEvent
}

func newStubWorkerRepo() *stubWorkerRepo {
	return &stubWorkerRepo{
		workers:     map[uuid.UUID]*models.Worker{},
		assignments: map[uuid.UUID]*models.WorkerAssignment{},
	}
}

func (s *stubWorkerRepo) Create(ctx context.Context, worker *models.Worker) error {
	if worker.ID == uuid.Nil {
		worker.ID = uuid.New()
	}
	worker.CreatedAt = time.Now()
	worker.UpdatedAt = worker.CreatedAt
	cpy := *worker
	s.workers[worker.ID] = &cpy
	return nil
}

func (s *stubWorkerRepo) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Worker, error) {
	worker, ok := s.workers[id]
	if !ok || worker.ShopID != shopID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *worker
	return &cpy, nil
}

func (s *stubWorkerRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Worker, error) {
	var out []models.Worker
	for _, id := range ids {
		if worker, ok := s.workers[id]; ok {
			out = append(out, *worker)
		}
	}
	return out, nil
}

func (s *stubWorkerRepo) List(ctx context.Context, shopID uuid.UUID) ([]models.Worker, error) {
	var out []models.Worker
	for _, worker := range s.workers {
		if worker.ShopID == shopID {
			out = append(out, *worker)
		}
	}
	return out, nil
}

func (s *stubWorkerRepo) Update(ctx context.Context, worker *models.Worker) error {
	cpy := *worker
	s.workers[worker.ID] = &cpy
	return nil
}

func (s *stubWorkerRepo) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	worker, ok := s.workers[id]
	if !ok || worker.ShopID != shopID {
		return gorm.ErrRecordNotFound
	}
	delete(s.workers, id)
	return nil
}

func (s *stubWorkerRepo) CreateAssignment(ctx context.Context, assignment *models.WorkerAssignment) error {
	for _, existing := range s.assignments {
		if existing.JobID == assignment.JobID && existing.WorkerID == assignment.WorkerID {
			return gorm.ErrDuplicatedKey
		}
	}
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	assignment.CreatedAt = time.Now()
	cpy := *assignment
	s.assignments[assignment.ID] = &cpy
	return nil
}

func (s *stubWorkerRepo) DeleteAssignment(ctx context.Context, jobID, workerID uuid.UUID) error {
	for id, existing := range s.assignments {
		if existing.JobID == jobID && existing.WorkerID == workerID {
			delete(s.assignments, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubWorkerRepo) ListAssignments(ctx context.Context, jobID uuid.UUID) ([]models.WorkerAssignment, error) {
	var out []models.WorkerAssignment
	for _, assignment := range s.assignments {
		if assignment.JobID == jobID {
			out = append(out, *assignment)
		}
	}
	return out, nil
}

func (s *stubWorkerRepo) AppendEvent(ctx context.Context, event *models.AssignmentEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *stubWorkerRepo) ListEvents(ctx context.Context, jobID uuid.UUID) ([]models.AssignmentEvent, error) {
	var out []models.AssignmentEvent
	for _, event := range s.events {
		if event.JobID == jobID {
			out = append(out, event)
		}
	}
	return out, nil
}

type stubJobLookup struct {
	jobs map[uuid.UUID]*models.JobSheet
}

func (s *stubJobLookup) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.JobSheet, error) {
	job, ok := s.jobs[id]
	if !ok || job.ShopID != shopID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *job
	return &cpy, nil
}

func testWorkerService(t *testing.T) (Service, *stubWorkerRepo, *stubJobLookup) {
	t.Helper()
	repo := newStubWorkerRepo()
	jobs := &stubJobLookup{jobs: map[uuid.UUID]*models.JobSheet{}}
	svc, err := NewService(repo, jobs)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, jobs
}

func seedJob(jobs *stubJobLookup, shopID uuid.UUID) uuid.UUID {
	id := uuid.New()
	jobs.jobs[id] = &models.JobSheet{ID: id, ShopID: shopID}
	return id
}

func TestCreateAndListWorkers(t *testing.T) {
	svc, _, _ := testWorkerService(t)
	shopID := uuid.New()
	ctx := context.Background()

	dto, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "  Priya Tech  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Name != "Priya Tech" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if !dto.Active {
		t.Fatal("new workers should start active")
	}

	listed, err := svc.List(ctx, shopID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 worker, got %d", len(listed))
	}

	other, err := svc.List(ctx, uuid.New())
	if err != nil {
		t.Fatalf("list other shop: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("workers leaked across shops: %d", len(other))
	}
}

func TestCreateWorkerRequiresName(t *testing.T) {
	svc, _, _ := testWorkerService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateWorkerInput{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssignWritesLiveRowAndEvent(t *testing.T) {
	svc, repo, jobs := testWorkerService(t)
	shopID := uuid.New()
	actorID := shopID
	ctx := context.Background()

	jobID := seedJob(jobs, shopID)
	worker, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "Priya Tech"})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}

	if err := svc.Assign(ctx, shopID, jobID, worker.ID, actorID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	current, err := svc.Assignments(ctx, shopID, jobID)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(current) != 1 || current[0].WorkerID != worker.ID || current[0].WorkerName != "Priya Tech" {
		t.Fatalf("unexpected assignment set: %+v", current)
	}

	if len(repo.events) != 1 || repo.events[0].Event != enums.AssignmentEventAssigned {
		t.Fatalf("expected one assigned event, got %+v", repo.events)
	}
	if repo.events[0].ActorID != actorID {
		t.Fatalf("event actor mismatch: %+v", repo.events[0])
	}
}

func TestDuplicateAssignmentConflicts(t *testing.T) {
	svc, _, jobs := testWorkerService(t)
	shopID := uuid.New()
	ctx := context.Background()

	jobID := seedJob(jobs, shopID)
	worker, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "Priya Tech"})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}

	if err := svc.Assign(ctx, shopID, jobID, worker.ID, shopID); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	err = svc.Assign(ctx, shopID, jobID, worker.ID, shopID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRemoveKeepsAuditTrail(t *testing.T) {
	svc, _, jobs := testWorkerService(t)
	shopID := uuid.New()
	ctx := context.Background()

	jobID := seedJob(jobs, shopID)
	worker, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "Priya Tech"})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}

	if err := svc.Assign(ctx, shopID, jobID, worker.ID, shopID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.Remove(ctx, shopID, jobID, worker.ID, shopID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	current, err := svc.Assignments(ctx, shopID, jobID)
	if err != nil {
		t.Fatalf("assignments: %v", err)
	}
	if len(current) != 0 {
		t.Fatalf("expected empty live set, got %+v", current)
	}

	history, err := svc.History(ctx, shopID, jobID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(history))
	}
	if history[0].Event != enums.AssignmentEventAssigned || history[1].Event != enums.AssignmentEventRemoved {
		t.Fatalf("unexpected event order: %+v", history)
	}
}

func TestRemoveUnassignedWorkerIsNotFound(t *testing.T) {
	svc, _, jobs := testWorkerService(t)
	shopID := uuid.New()
	ctx := context.Background()

	jobID := seedJob(jobs, shopID)
	worker, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "Priya Tech"})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}

	err = svc.Remove(ctx, shopID, jobID, worker.ID, shopID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignForeignJobIsNotFound(t *testing.T) {
	svc, _, jobs := testWorkerService(t)
	shopID := uuid.New()
	ctx := context.Background()

	foreignJob := seedJob(jobs, uuid.New())
	worker, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "Priya Tech"})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}

	err = svc.Assign(ctx, shopID, foreignJob, worker.ID, shopID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign job, got %v", err)
	}
}

func TestUpdateWorkerFields(t *testing.T) {
	svc, _, _ := testWorkerService(t)
	shopID := uuid.New()
	ctx := context.Background()

	dto, err := svc.Create(ctx, shopID, CreateWorkerInput{Name: "Priya Tech"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := false
	updated, err := svc.Update(ctx, shopID, dto.ID, UpdateWorkerInput{Active: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Active {
		t.Fatal("expected worker deactivated")
	}
	if updated.Name != "Priya Tech" {
		t.Fatalf("untouched name changed: %q", updated.Name)
	}
}
