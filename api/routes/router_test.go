package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fixflowhq/fixflow-backend/internal/auth"
	"github.com/fixflowhq/fixflow-backend/internal/jobs"
	"github.com/fixflowhq/fixflow-backend/internal/shops"
	"github.com/fixflowhq/fixflow-backend/internal/stats"
	"github.com/fixflowhq/fixflow-backend/internal/warranties"
	"github.com/fixflowhq/fixflow-backend/internal/workers"
	pkgAuth "github.com/fixflowhq/fixflow-backend/pkg/auth"
	"github.com/fixflowhq/fixflow-backend/pkg/auth/session"
	"github.com/fixflowhq/fixflow-backend/pkg/config"
	"github.com/fixflowhq/fixflow-backend/pkg/enums"
	"github.com/fixflowhq/fixflow-backend/pkg/logger"
	"github.com/fixflowhq/fixflow-backend/pkg/pagination"
	"github.com/fixflowhq/fixflow-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Signup(ctx context.Context, input auth.SignupInput) (*shops.ShopDTO, error) {
	return &shops.ShopDTO{}, nil
}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.AuthResultDTO, error) {
	return &auth.AuthResultDTO{Shop: &shops.ShopDTO{}}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubShopService struct{}

// GetByID implements [shops.Service].
func (stubShopService) GetByID(ctx context.Context, id uuid.UUID) (*shops.ShopDTO, error) {
	return &shops.ShopDTO{ID: id}, nil
}

func (stubShopService) UpdateProfile(ctx context.Context, shopID uuid.UUID, input shops.UpdateShopInput) (*shops.ShopDTO, error) {
	panic("unimplemented")
}

func (stubShopService) SetAccessPin(ctx context.Context, shopID uuid.UUID, pin string) error {
	panic("unimplemented")
}

func (stubShopService) VerifyAccessPin(ctx context.Context, shopID uuid.UUID, pin string) (bool, error) {
	panic("unimplemented")
}

func (stubShopService) List(ctx context.Context, params pagination.Params) ([]shops.ShopDTO, string, error) {
	return []shops.ShopDTO{}, "", nil
}

func (stubShopService) UpdateSubscription(ctx context.Context, shopID uuid.UUID, input shops.UpdateSubscriptionInput) (*shops.ShopDTO, error) {
	panic("unimplemented")
}

type stubJobService struct{}

func (stubJobService) Create(ctx context.Context, shopID uuid.UUID, input jobs.CreateJobInput) (*jobs.JobSheetDTO, error) {
	panic("unimplemented")
}

func (stubJobService) Get(ctx context.Context, shopID, jobID uuid.UUID) (*jobs.JobSheetDTO, error) {
	panic("unimplemented")
}

func (stubJobService) List(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]jobs.JobSheetDTO, string, error) {
	return []jobs.JobSheetDTO{}, "", nil
}

func (stubJobService) Update(ctx context.Context, shopID, jobID uuid.UUID, input jobs.UpdateJobInput) (*jobs.JobSheetDTO, error) {
	panic("unimplemented")
}

func (stubJobService) UpdateStatus(ctx context.Context, shopID, jobID uuid.UUID, status string) (*jobs.JobSheetDTO, error) {
	panic("unimplemented")
}

func (stubJobService) Delete(ctx context.Context, shopID, jobID uuid.UUID) error {
	panic("unimplemented")
}

func (stubJobService) AdminList(ctx context.Context, params pagination.Params) ([]jobs.AdminJobDTO, string, error) {
	return []jobs.AdminJobDTO{}, "", nil
}

type stubWarrantyService struct{}

func (stubWarrantyService) Issue(ctx context.Context, shopID uuid.UUID, input warranties.IssueWarrantyInput) (*warranties.WarrantyDTO, error) {
	panic("unimplemented")
}

func (stubWarrantyService) Get(ctx context.Context, shopID, warrantyID uuid.UUID) (*warranties.WarrantyDTO, error) {
	panic("unimplemented")
}

func (stubWarrantyService) List(ctx context.Context, shopID uuid.UUID, params pagination.Params) ([]warranties.WarrantyDTO, string, error) {
	return []warranties.WarrantyDTO{}, "", nil
}

func (stubWarrantyService) Update(ctx context.Context, shopID, warrantyID uuid.UUID, input warranties.UpdateWarrantyInput) (*warranties.WarrantyDTO, error) {
	panic("unimplemented")
}

func (stubWarrantyService) Delete(ctx context.Context, shopID, warrantyID uuid.UUID) error {
	panic("unimplemented")
}

func (stubWarrantyService) Resolve(ctx context.Context, shortCode string) (*warranties.PublicWarrantyDTO, error) {
	return &warranties.PublicWarrantyDTO{ShortCode: shortCode}, nil
}

type stubStatsService struct{}

func (stubStatsService) JobCounts(ctx context.Context, shopID uuid.UUID) (*stats.JobCountsDTO, error) {
	return &stats.JobCountsDTO{}, nil
}

func (stubStatsService) WarrantyTotals(ctx context.Context, shopID uuid.UUID, accessPin string) (*stats.WarrantyTotalsDTO, error) {
	panic("unimplemented")
}

func (stubStatsService) JobDistribution(ctx context.Context, shopID uuid.UUID) ([]stats.DistributionEntry, error) {
	panic("unimplemented")
}

type stubWorkerService struct{}

func (stubWorkerService) Create(ctx context.Context, shopID uuid.UUID, input workers.CreateWorkerInput) (*workers.WorkerDTO, error) {
	panic("unimplemented")
}

func (stubWorkerService) Get(ctx context.Context, shopID, workerID uuid.UUID) (*workers.WorkerDTO, error) {
	panic("unimplemented")
}

func (stubWorkerService) List(ctx context.Context, shopID uuid.UUID) ([]workers.WorkerDTO, error) {
	return []workers.WorkerDTO{}, nil
}

func (stubWorkerService) Update(ctx context.Context, shopID, workerID uuid.UUID, input workers.UpdateWorkerInput) (*workers.WorkerDTO, error) {
	panic("unimplemented")
}

func (stubWorkerService) Delete(ctx context.Context, shopID, workerID uuid.UUID) error {
	panic("unimplemented")
}

func (stubWorkerService) Assign(ctx context.Context, shopID, jobID, workerID, actorID uuid.UUID) error {
	panic("unimplemented")
}

func (stubWorkerService) Remove(ctx context.Context, shopID, jobID, workerID, actorID uuid.UUID) error {
	panic("unimplemented")
}

func (stubWorkerService) Assignments(ctx context.Context, shopID, jobID uuid.UUID) ([]workers.AssignmentDTO, error) {
	return []workers.AssignmentDTO{}, nil
}

func (stubWorkerService) History(ctx context.Context, shopID, jobID uuid.UUID) ([]workers.AssignmentEventDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubSessionChecker{},
		nil, // metrics
		nil, // gatherer
		stubAuthService{},
		stubShopService{},
		stubJobService{},
		stubWarrantyService{},
		stubStatsService{},
		stubWorkerService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.ShopRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		ShopID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if got := resp.Header().Get("X-FixFlow-Env"); got != "test" {
		t.Fatalf("expected environment header, got %q", got)
	}
}

func TestPublicVerifyNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/public/verify/AB23CD45", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public verify got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/workers", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ShopRoleNormal))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for worker roster got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	tenant := httptest.NewRequest(http.MethodGet, "/api/admin/v1/shops", nil)
	tenant.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ShopRoleNormal))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, tenant)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/shops", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ShopRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminJobsVisibleToAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.ShopRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin job feed got %d", resp.Code)
	}
}

func TestLogoutRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}
