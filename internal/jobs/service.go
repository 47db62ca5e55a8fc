package jobs

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db"
	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	jobNumberPrefix   = "JO-"
	jobNumberDigits   = 5
	jobNumberAttempts = 5
)

type jobRepository interface {
	Create(ctx context.Context, job *models.JobSheet) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.JobSheet, error)
	List(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.JobSheet, error)
	ListAll(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.JobSheet, error)
	Update(ctx context.Context, job *models.JobSheet) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	JobNumberExists(ctx context.Context, shopID uuid.UUID, jobNumber string) (bool, error)
}

type shopLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Shop, error)
}

// Service exposes job sheet operations.
type Service interface {
	Create(ctx context.Context, shopID uuid.UUID, input CreateJobInput) (*JobSheetDTO, error)
	Get(ctx context.Context, shopID, jobID uuid.UUID) (*JobSheetDTO, error)
	List(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]JobSheetDTO, string, error)
	Update(ctx context.Context, shopID, jobID uuid.UUID, input UpdateJobInput) (*JobSheetDTO, error)
	UpdateStatus(ctx context.Context, shopID, jobID uuid.UUID, status string) (*JobSheetDTO, error)
	Delete(ctx context.Context, shopID, jobID uuid.UUID) error
	AdminList(ctx context.Context, params pagination.Params) ([]AdminJobDTO, string, error)
}

type service struct {
	repo  jobRepository
	shops shopLookup
}

// NewService builds a job sheet service with the provided repositories.
func NewService(repo jobRepository, shops shopLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("job repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop lookup required")
	}
	return &service{repo: repo, shops: shops}, nil
}

func (s *service) Create(ctx context.Context, shopID uuid.UUID, input CreateJobInput) (*JobSheetDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}

	category, err := enums.ParseDeviceCategory(strings.TrimSpace(input.DeviceCategory))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid device category")
	}
	if err := input.TechnicalDetails.Validate(category.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid technical details")
	}
	if input.EstimatedCost.IsNegative() || input.AdvanceAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
	}

	receivedAt := time.Now().UTC()
	if input.ReceivedAt != nil {
		receivedAt = input.ReceivedAt.UTC()
	}

	job := &models.JobSheet{
		ShopID:           shopID,
		CustomerName:     strings.TrimSpace(input.CustomerName),
		CustomerPhone:    strings.TrimSpace(input.CustomerPhone),
		CustomerAddress:  input.CustomerAddress,
		DeviceCategory:   category,
		DeviceModel:      strings.TrimSpace(input.DeviceModel),
		Problem:          strings.TrimSpace(input.Problem),
		Accessories:      input.Accessories,
		TechnicalDetails: input.TechnicalDetails,
		EstimatedCost:    input.EstimatedCost.Decimal,
		AdvanceAmount:    input.AdvanceAmount.Decimal,
		Status:           enums.JobStatusReceived,
		ReceivedAt:       receivedAt,
		ExpectedAt:       input.ExpectedAt,
	}

	if err := s.createWithGeneratedNumber(ctx, job); err != nil {
		return nil, err
	}
	return FromModel(job), nil
}

// createWithGeneratedNumber assigns a random JO-##### number and retries on
// per-shop collisions before giving up.
func (s *service) createWithGeneratedNumber(ctx context.Context, job *models.JobSheet) error {
	for attempt := 0; attempt < jobNumberAttempts; attempt++ {
		number, err := generateJobNumber()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate job number")
		}

		exists, err := s.repo.JobNumberExists(ctx, job.ShopID, number)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check job number")
		}
		if exists {
			continue
		}

		job.JobNumber = number
		err = s.repo.Create(ctx, job)
		if err == nil {
			return nil
		}
		// concurrent insert can still race the existence check
		if db.IsUniqueViolation(err) {
			continue
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create job")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique job number")
}

func (s *service) Get(ctx context.Context, shopID, jobID uuid.UUID) (*JobSheetDTO, error) {
	job, err := s.load(ctx, shopID, jobID)
	if err != nil {
		return nil, err
	}
	return FromModel(job), nil
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]JobSheetDTO, string, error) {
	if shopID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, shopID, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}

	rows, next := clipPage(rows, limit)
	dtos := make([]JobSheetDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, next, nil
}

func (s *service) Update(ctx context.Context, shopID, jobID uuid.UUID, input UpdateJobInput) (*JobSheetDTO, error) {
	job, err := s.load(ctx, shopID, jobID)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		job.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		job.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.CustomerAddress != nil {
		job.CustomerAddress = input.CustomerAddress
	}
	if input.DeviceModel != nil {
		job.DeviceModel = strings.TrimSpace(*input.DeviceModel)
	}
	if input.Problem != nil {
		job.Problem = strings.TrimSpace(*input.Problem)
	}
	if input.Accessories != nil {
		job.Accessories = input.Accessories
	}
	if input.TechnicalDetails != nil {
		if err := input.TechnicalDetails.Validate(job.DeviceCategory.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid technical details")
		}
		job.TechnicalDetails = input.TechnicalDetails
	}
	if input.EstimatedCost != nil {
		if input.EstimatedCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
		}
		job.EstimatedCost = input.EstimatedCost.Decimal
	}
	if input.AdvanceAmount != nil {
		if input.AdvanceAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
		}
		job.AdvanceAmount = input.AdvanceAmount.Decimal
	}
	if input.ExpectedAt != nil {
		job.ExpectedAt = input.ExpectedAt
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job")
	}
	return FromModel(job), nil
}

// UpdateStatus enforces the lifecycle transition table. A same-status write
// is a no-op; terminal states never move again.
func (s *service) UpdateStatus(ctx context.Context, shopID, jobID uuid.UUID, status string) (*JobSheetDTO, error) {
	target, err := enums.ParseJobStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid job status")
	}

	job, err := s.load(ctx, shopID, jobID)
	if err != nil {
		return nil, err
	}

	if job.Status == target {
		return FromModel(job), nil
	}
	if !job.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move job from %s to %s", job.Status, target),
		).WithDetails(map[string]string{"from": job.Status.String(), "to": target.String()})
	}

	job.Status = target
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job status")
	}
	return FromModel(job), nil
}

func (s *service) Delete(ctx context.Context, shopID, jobID uuid.UUID) error {
	if err := s.repo.Delete(ctx, shopID, jobID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete job")
	}
	return nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params) ([]AdminJobDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListAll(ctx, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	rows, next := clipPage(rows, limit)

	shopIDs := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for i := range rows {
		if !seen[rows[i].ShopID] {
			seen[rows[i].ShopID] = true
			shopIDs = append(shopIDs, rows[i].ShopID)
		}
	}

	shopRows, err := s.shops.FindByIDs(ctx, shopIDs)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shops")
	}
	summaries := make(map[uuid.UUID]ShopSummary, len(shopRows))
	for i := range shopRows {
		summaries[shopRows[i].ID] = ShopSummary{
			ID:       shopRows[i].ID,
			ShopName: shopRows[i].ShopName,
			Category: shopRows[i].Category,
		}
	}

	dtos := make([]AdminJobDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, AdminJobDTO{
			JobSheetDTO: *FromModel(&rows[i]),
			Shop:        summaries[rows[i].ShopID],
		})
	}
	return dtos, next, nil
}

func (s *service) load(ctx context.Context, shopID, jobID uuid.UUID) (*models.JobSheet, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	job, err := s.repo.FindByID(ctx, shopID, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
	}
	return job, nil
}

func clipPage(rows []models.JobSheet, limit int) ([]models.JobSheet, string) {
	if len(rows) <= limit {
		return rows, ""
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
}

func generateJobNumber() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < jobNumberDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d", jobNumberPrefix, jobNumberDigits, n.Int64()), nil
}
