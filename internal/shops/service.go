package shops

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/config"
	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/fixflowhq/fixflow-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type shopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) error
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.Shop, error)
}

// Service exposes shop profile, PIN gate, and admin operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
	UpdateProfile(ctx context.Context, shopID uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
	SetAccessPin(ctx context.Context, shopID uuid.UUID, pin string) error
	VerifyAccessPin(ctx context.Context, shopID uuid.UUID, pin string) (bool, error)
	List(ctx context.Context, params pagination.Params) ([]ShopDTO, string, error)
	UpdateSubscription(ctx context.Context, shopID uuid.UUID, input UpdateSubscriptionInput) (*ShopDTO, error)
}

type service struct {
	repo        shopRepository
	passwordCfg config.PasswordConfig
}

// NewService builds a shop service with the provided repository.
func NewService(repo shopRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// UpdateShopInput captures the allowed profile fields for mutation.
type UpdateShopInput struct {
	ShopName  *string
	OwnerName *string
	Phone     *string
	Category  *string
	Address   *string
}

// UpdateSubscriptionInput captures the admin-only subscription mutation.
type UpdateSubscriptionInput struct {
	Status enums.SubscriptionStatus
	EndsAt *time.Time
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	shop, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(shop), nil
}

func (s *service) UpdateProfile(ctx context.Context, shopID uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	shop, err := s.load(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if input.ShopName != nil {
		shop.ShopName = *input.ShopName
	}
	if input.OwnerName != nil {
		shop.OwnerName = *input.OwnerName
	}
	if input.Phone != nil {
		shop.Phone = *input.Phone
	}
	if input.Category != nil {
		shop.Category = cloneStringPtr(input.Category)
	}
	if input.Address != nil {
		shop.Address = cloneStringPtr(input.Address)
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop")
	}
	return FromModel(shop), nil
}

// SetAccessPin hashes and stores the revenue-gate PIN. Overwriting an
// existing PIN is allowed.
func (s *service) SetAccessPin(ctx context.Context, shopID uuid.UUID, pin string) error {
	if err := security.ValidatePIN(pin); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "pin must be exactly 4 digits")
	}

	shop, err := s.load(ctx, shopID)
	if err != nil {
		return err
	}

	hash, err := security.HashSecret(pin, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash pin")
	}

	shop.AccessPinHash = &hash
	if err := s.repo.Update(ctx, shop); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store pin")
	}
	return nil
}

// VerifyAccessPin compares the provided PIN against the stored hash. A wrong
// PIN returns false with no error; verifying before any PIN was set is a
// state conflict so clients can switch to set-PIN mode.
func (s *service) VerifyAccessPin(ctx context.Context, shopID uuid.UUID, pin string) (bool, error) {
	shop, err := s.load(ctx, shopID)
	if err != nil {
		return false, err
	}

	if shop.AccessPinHash == nil || *shop.AccessPinHash == "" {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict, "no access pin set")
	}

	ok, err := security.VerifySecret(pin, *shop.AccessPinHash)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify pin")
	}
	return ok, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]ShopDTO, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, limit+1, cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	dtos := make([]ShopDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, next, nil
}

func (s *service) UpdateSubscription(ctx context.Context, shopID uuid.UUID, input UpdateSubscriptionInput) (*ShopDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription status")
	}

	shop, err := s.load(ctx, shopID)
	if err != nil {
		return nil, err
	}

	shop.SubscriptionStatus = input.Status
	shop.SubscriptionEndsAt = input.EndsAt

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription")
	}
	return FromModel(shop), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return shop, nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
