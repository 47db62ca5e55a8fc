package warranties

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fixflowhq/fixflow-backend/pkg/db/models"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	pkgerrors "github.com/fixflowhq/fixflow-backend/pkg/errors"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/fixflowhq/fixflow-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubWarrantyRepo struct {
	warranties map[uuid.UUID]*models.Warranty
	codeTaken  bool
}

func newStubWarrantyRepo() *stubWarrantyRepo {
	return &stubWarrantyRepo{warranties: map[uuid.UUID]*models.Warranty{}}
}

func (s *stubWarrantyRepo) Create(ctx context.Context, warranty *models.Warranty) error {
	for _, existing := range s.warranties {
		if existing.ShortCode == warranty.ShortCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if warranty.ID == uuid.Nil {
		warranty.ID = uuid.New()
	}
	warranty.CreatedAt = time.Now()
	warranty.UpdatedAt = warranty.CreatedAt
	cpy := *warranty
	s.warranties[warranty.ID] = &cpy
	return nil
}

func (s *stubWarrantyRepo) FindByID(ctx context.Context, shopID, id uuid.UUID) (*models.Warranty, error) {
	warranty, ok := s.warranties[id]
	if !ok || warranty.ShopID != shopID {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *warranty
	return &cpy, nil
}

func (s *stubWarrantyRepo) FindByShortCode(ctx context.Context, shortCode string) (*models.Warranty, error) {
	normalized := strings.ToUpper(strings.TrimSpace(shortCode))
	for _, warranty := range s.warranties {
		if warranty.ShortCode == normalized {
			cpy := *warranty
			return &cpy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubWarrantyRepo) List(ctx context.Context, shopID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Warranty, error) {
	var rows []models.Warranty
	for _, warranty := range s.warranties {
		if warranty.ShopID == shopID {
			rows = append(rows, *warranty)
		}
	}
	return rows, nil
}

func (s *stubWarrantyRepo) Update(ctx context.Context, warranty *models.Warranty) error {
	cpy := *warranty
	s.warranties[warranty.ID] = &cpy
	return nil
}

func (s *stubWarrantyRepo) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	warranty, ok := s.warranties[id]
	if !ok || warranty.ShopID != shopID {
		return gorm.ErrRecordNotFound
	}
	delete(s.warranties, id)
	return nil
}

func (s *stubWarrantyRepo) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	if s.codeTaken {
		return true, nil
	}
	for _, warranty := range s.warranties {
		if warranty.ShortCode == shortCode {
			return true, nil
		}
	}
	return false, nil
}

type stubWarrantyShops struct {
	shops map[uuid.UUID]*models.Shop
}

func (s *stubWarrantyShops) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	shop, ok := s.shops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cpy := *shop
	return &cpy, nil
}

func testWarrantyService(t *testing.T, now time.Time) (Service, *stubWarrantyRepo, *stubWarrantyShops) {
	t.Helper()
	repo := newStubWarrantyRepo()
	shops := &stubWarrantyShops{shops: map[uuid.UUID]*models.Shop{}}
	svc, err := NewService(repo, shops)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }
	return svc, repo, shops
}

func validIssueInput() IssueWarrantyInput {
	return IssueWarrantyInput{
		CustomerName:  "Alex Customer",
		CustomerPhone: "+15550002222",
		DeviceModel:   "Pixel 9",
		RepairType:    "screen replacement",
		RepairCost:    types.AmountFromString("120.50"),
		DurationDays:  30,
	}
}

func TestIssueGeneratesShortCodeAndExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := testWarrantyService(t, now)

	dto, err := svc.Issue(context.Background(), uuid.New(), validIssueInput())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(dto.ShortCode) != 8 {
		t.Fatalf("unexpected short code: %q", dto.ShortCode)
	}
	if dto.ShortCode != strings.ToUpper(dto.ShortCode) {
		t.Fatalf("short code should be uppercase: %q", dto.ShortCode)
	}
	want := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	if !dto.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %s, got %s", want, dto.ExpiresAt)
	}
	if dto.Status != enums.WarrantyStatusActive {
		t.Fatalf("expected active, got %s", dto.Status)
	}
}

func TestIssueRejectsNonPositiveDuration(t *testing.T) {
	svc, _, _ := testWarrantyService(t, time.Now().UTC())
	input := validIssueInput()
	input.DurationDays = 0

	_, err := svc.Issue(context.Background(), uuid.New(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExpiredStatusIsDerivedNotStored(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc, repo, _ := testWarrantyService(t, issued)
	shopID := uuid.New()

	dto, err := svc.Issue(context.Background(), shopID, validIssueInput())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// stored row still says active
	stored := repo.warranties[dto.ID]
	if stored.Status != enums.WarrantyStatusActive {
		t.Fatalf("stored status should remain active, got %s", stored.Status)
	}

	// a day past expiry the read path reports expired without any write
	svc.(*service).now = func() time.Time {
		return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	}
	later, err := svc.Get(context.Background(), shopID, dto.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if later.Status != enums.WarrantyStatusExpired {
		t.Fatalf("expected derived expired, got %s", later.Status)
	}
	if repo.warranties[dto.ID].Status != enums.WarrantyStatusActive {
		t.Fatalf("read must not rewrite stored status")
	}

	// derivation is stable at a fixed instant
	again, err := svc.Get(context.Background(), shopID, dto.ID)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Status != later.Status {
		t.Fatalf("derivation should be idempotent, got %s then %s", later.Status, again.Status)
	}
}

func TestResolveReturnsPublicProjection(t *testing.T) {
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	svc, _, shops := testWarrantyService(t, now)
	shopID := uuid.New()
	category := "mobile"
	shops.shops[shopID] = &models.Shop{ID: shopID, ShopName: "Fix It Fast", Category: &category}

	note := "customer haggled on price"
	input := validIssueInput()
	input.PrivateNote = &note
	dto, err := svc.Issue(context.Background(), shopID, input)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	public, err := svc.Resolve(context.Background(), "  "+strings.ToLower(dto.ShortCode)+" ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if public.ShopName != "Fix It Fast" {
		t.Fatalf("expected shop name, got %q", public.ShopName)
	}
	if public.Status != enums.WarrantyStatusActive {
		t.Fatalf("expected active, got %s", public.Status)
	}

	// the public payload has no private note field at all
	raw, err := json.Marshal(public)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "private_note") || strings.Contains(string(raw), note) {
		t.Fatalf("private note leaked through public projection: %s", raw)
	}
}

func TestResolveUnknownCodeIsNotFound(t *testing.T) {
	svc, _, _ := testWarrantyService(t, time.Now().UTC())

	_, err := svc.Resolve(context.Background(), "NOPE1234")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIssueShortCodeExhaustionConflicts(t *testing.T) {
	svc, repo, _ := testWarrantyService(t, time.Now().UTC())
	repo.codeTaken = true

	_, err := svc.Issue(context.Background(), uuid.New(), validIssueInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict after exhausting attempts, got %v", err)
	}
}

func TestUpdateMutableFields(t *testing.T) {
	svc, _, _ := testWarrantyService(t, time.Now().UTC())
	shopID := uuid.New()
	ctx := context.Background()

	dto, err := svc.Issue(ctx, shopID, validIssueInput())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	name := "Renamed Customer"
	updated, err := svc.Update(ctx, shopID, dto.ID, UpdateWarrantyInput{CustomerName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CustomerName != name {
		t.Fatalf("expected renamed customer, got %q", updated.CustomerName)
	}
	if updated.DeviceModel != dto.DeviceModel {
		t.Fatalf("untouched field changed: %q", updated.DeviceModel)
	}
}

func TestDeleteForeignShopIsNotFound(t *testing.T) {
	svc, _, _ := testWarrantyService(t, time.Now().UTC())
	ctx := context.Background()

	dto, err := svc.Issue(ctx, uuid.New(), validIssueInput())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	err = svc.Delete(ctx, uuid.New(), dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
