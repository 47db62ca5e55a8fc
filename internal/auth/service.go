package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fixflowhq/fixflow-backend/internal/shops"
	pkgAuth "github.com/fixflowhq/fixflow-backend/pkg/auth"
	"github.com/fixflowhq/fixflow-backend/pkg/auth/session"
	"github.com/fixflowhq/fixflow-backend/pkg/config"
	"github.com/fixflowhq/fixflow-backend/pkg/db"
	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*shops.ShopDTO, error)
	Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error)
	Logout(ctx context.Context, accessID string) error
}

type shopRepository interface {
	Create(ctx context.Context, dto shops.CreateShopDTO) (*models.Shop, error)
	FindByEmail(ctx context.Context, email string) (*models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) error
}

type sessionManager interface {
	Start(ctx context.Context, accessID string, shopID uuid.UUID) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	shops           shopRepository
	session         sessionManager
	jwtCfg          config.JWTConfig
	passwordCfg     config.PasswordConfig
	subscriptionCfg config.SubscriptionConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	ShopRepo           shopRepository
	SessionManager     sessionManager
	JWTConfig          config.JWTConfig
	PasswordConfig     config.PasswordConfig
	SubscriptionConfig config.SubscriptionConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ShopRepo == nil {
		return nil, fmt.Errorf("shop repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		shops:           params.ShopRepo,
		session:         params.SessionManager,
		jwtCfg:          params.JWTConfig,
		passwordCfg:     params.PasswordConfig,
		subscriptionCfg: params.SubscriptionConfig,
	}, nil
}

// Signup registers a new shop starting on a free trial.
func (s *service) Signup(ctx context.Context, input SignupInput) (*shops.ShopDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := security.HashSecret(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	trialEnds := time.Now().UTC().AddDate(0, 0, s.subscriptionCfg.TrialDays)
	shop, err := s.shops.Create(ctx, shops.CreateShopDTO{
		Email:              email,
		PasswordHash:       hash,
		Phone:              strings.TrimSpace(input.Phone),
		ShopName:           strings.TrimSpace(input.ShopName),
		OwnerName:          strings.TrimSpace(input.OwnerName),
		Category:           input.Category,
		Address:            input.Address,
		SubscriptionEndsAt: &trialEnds,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email or phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shop")
	}

	return shops.FromModel(shop), nil
}

// Login authenticates a shop and mints a session-backed access token.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error) {
	shop, err := s.authenticate(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	now, err := s.recordLogin(ctx, shop)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		ShopID: shop.ID,
		Role:   shop.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Start(ctx, accessID, shop.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "start session")
	}

	return &AuthResultDTO{
		Shop:  shops.FromModel(shop),
		Token: token,
	}, nil
}

// Logout revokes the server-side session for the provided access ID.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Shop, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	shop, err := s.shops.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shop")
	}

	if shop.PasswordHash == nil || *shop.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	valid, err := security.VerifySecret(password, *shop.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return shop, nil
}

func (s *service) recordLogin(ctx context.Context, shop *models.Shop) (time.Time, error) {
	now := time.Now().UTC()
	shop.LastLoginAt = &now
	if err := s.shops.Update(ctx, shop); err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	return now, nil
}
