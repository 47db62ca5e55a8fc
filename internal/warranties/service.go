package warranties

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
	// shortCodeAlphabet omits ambiguous characters (0/O, 1/I/L).
	shortCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	shortCodeLength   = 8
	shortCodeAttempts = 5
	maxWarrantyDays   = 3650
)

type warrantyRepository interface {
	Create(ctx context.Context, warranty *models.Warranty) error
	FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Warranty, error)
	FindByShortCode(ctx context.Context, shortCode string) (*models.Warranty, error)
	List(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Warranty, error)
	Update(ctx context.Context, warranty *models.Warranty) error
	Delete(ctx context.Context, shopID, id uuid.UUID) error
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
}

type shopLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

// Service exposes warranty operations, including the public resolver.
type Service interface {
	Issue(ctx context.Context, shopID uuid.UUID, input IssueWarrantyInput) (*WarrantyDTO, error)
	Get(ctx context.Context, shopID, warrantyID uuid.UUID) (*WarrantyDTO, error)
	List(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]WarrantyDTO, string, error)
	Update(ctx context.Context, shopID, warrantyID uuid.UUID, input UpdateWarrantyInput) (*WarrantyDTO, error)
	Delete(ctx context.Context, shopID, warrantyID uuid.UUID) error
	Resolve(ctx context.Context, shortCode string) (*PublicWarrantyDTO, error)
}

type service struct {
	repo  warrantyRepository
	shops shopLookup
	now   func() time.Time
}

// NewService builds a warranty service with the provided repositories.
func NewService(repo warrantyRepository, shops shopLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warranty repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop lookup required")
	}
	return &service{repo: repo, shops: shops, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Issue creates a certificate whose expiry is issued_at plus the duration.
// The stored status is written once here and never transitioned afterwards;
// read paths derive the effective status from expires_at.
func (s *service) Issue(ctx context.Context, shopID uuid.UUID, input IssueWarrantyInput) (*WarrantyDTO, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	if input.DurationDays <= 0 || input.DurationDays > maxWarrantyDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "duration must be between 1 and 3650 days")
	}
	if input.RepairCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair cost must not be negative")
	}

	issuedAt := s.now()
	if input.IssuedAt != nil {
		issuedAt = input.IssuedAt.UTC()
	}

	warranty := &models.Warranty{
		ShopID:          shopID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerAddress: input.CustomerAddress,
		DeviceModel:     strings.TrimSpace(input.DeviceModel),
		RepairType:      strings.TrimSpace(input.RepairType),
		RepairCost:      input.RepairCost.Decimal,
		IssuedAt:        issuedAt,
		ExpiresAt:       issuedAt.AddDate(0, 0, input.DurationDays),
		Status:          enums.WarrantyStatusActive,
		PrivateNote:     input.PrivateNote,
	}

	if err := s.createWithGeneratedCode(ctx, warranty); err != nil {
		return nil, err
	}
	return FromModel(warranty, s.now()), nil
}

func (s *service) createWithGeneratedCode(ctx context.Context, warranty *models.Warranty) error {
	for attempt := 0; attempt < shortCodeAttempts; attempt++ {
		code, err := generateShortCode()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate short code")
		}

		exists, err := s.repo.ShortCodeExists(ctx, code)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check short code")
		}
		if exists {
			continue
		}

		warranty.ShortCode = code
		err = s.repo.Create(ctx, warranty)
		if err == nil {
			return nil
		}
		if db.IsUniqueViolation(err) {
			continue
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create warranty")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique short code")
}

func (s *service) Get(ctx context.Context, shopID, warrantyID uuid.UUID) (*WarrantyDTO, error) {
	warranty, err := s.load(ctx, shopID, warrantyID)
	if err != nil {
		return nil, err
	}
	return FromModel(warranty, s.now()), nil
}

func (s *service) List(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]WarrantyDTO, string, error) {
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
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list warranties")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	now := s.now()
	dtos := make([]WarrantyDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], now))
	}
	return dtos, next, nil
}

func (s *service) Update(ctx context.Context, shopID, warrantyID uuid.UUID, input UpdateWarrantyInput) (*WarrantyDTO, error) {
	warranty, err := s.load(ctx, shopID, warrantyID)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != nil {
		warranty.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		warranty.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.CustomerAddress != nil {
		warranty.CustomerAddress = input.CustomerAddress
	}
	if input.DeviceModel != nil {
		warranty.DeviceModel = strings.TrimSpace(*input.DeviceModel)
	}
	if input.RepairType != nil {
		warranty.RepairType = strings.TrimSpace(*input.RepairType)
	}
	if input.PrivateNote != nil {
		warranty.PrivateNote = input.PrivateNote
	}

	if err := s.repo.Update(ctx, warranty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update warranty")
	}
	return FromModel(warranty, s.now()), nil
}

func (s *service) Delete(ctx context.Context, shopID, warrantyID uuid.UUID) error {
	if shopID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	if err := s.repo.Delete(ctx, shopID, warrantyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "warranty not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete warranty")
	}
	return nil
}

// Resolve is the unauthenticated verification lookup. It never includes the
// private note; the public DTO has no field for it.
func (s *service) Resolve(ctx context.Context, shortCode string) (*PublicWarrantyDTO, error) {
	code := strings.TrimSpace(shortCode)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warranty not found")
	}

	warranty, err := s.repo.FindByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warranty not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve warranty")
	}

	shop, err := s.shops.FindByID(ctx, warranty.ShopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load issuing shop")
	}

	dto := FromModel(warranty, s.now())
	return &PublicWarrantyDTO{
		CustomerName:    dto.CustomerName,
		CustomerPhone:   dto.CustomerPhone,
		CustomerAddress: dto.CustomerAddress,
		DeviceModel:     dto.DeviceModel,
		RepairType:      dto.RepairType,
		RepairCost:      dto.RepairCost,
		ShortCode:       dto.ShortCode,
		IssuedAt:        dto.IssuedAt,
		ExpiresAt:       dto.ExpiresAt,
		Status:          dto.Status,
		ShopName:        shop.ShopName,
		ShopCategory:    shop.Category,
	}, nil
}

func (s *service) load(ctx context.Context, shopID, warrantyID uuid.UUID) (*models.Warranty, error) {
	if shopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shopId is required")
	}
	warranty, err := s.repo.FindByID(ctx, shopID, warrantyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warranty not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load warranty")
	}
	return warranty, nil
}

func generateShortCode() (string, error) {
	buf := make([]byte, shortCodeLength)
	alphabetLen := big.NewInt(int64(len(shortCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		buf[i] = shortCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
