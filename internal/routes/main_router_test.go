package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"repair-office/internal/repositories"
	"repair-office/migrations"
	"repair-office/pkg/config"
	"repair-office/pkg/database/postgresql"
	"repair-office/pkg/filestorage"
	"repair-office/pkg/service"
	"repair-office/pkg/validation"
)

type stubRenderer struct{}

func (stubRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{StatsTTL: time.Minute, ActivityTTL: time.Minute, OptionsTTL: time.Minute},
		JWT:   config.JWTConfig{SecretKey: "router-test", AccessTokenTTL: time.Hour, RefreshTokenTTL: 2 * time.Hour},
		Auth:  config.AuthConfig{MaxLoginAttempts: 5, LockoutDuration: time.Minute},
	}
}

func newTestEcho(t *testing.T, db *postgresql.DB, cfg *config.Config) *echo.Echo {
	t.Helper()
	nop := zap.NewNop()

	storage, err := filestorage.NewLocalFileStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validation.New()

	deps := Deps{
		Cache:       repositories.NewMemoryCacheRepository(nil),
		FileStorage: storage,
		Renderer:    stubRenderer{},
		JWT:         service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, nop),
		Config:      cfg,
	}
	if db != nil {
		deps.DB = db
		deps.TxBeginner = db
	}
	InitRouter(e, deps, &Loggers{Main: nop, Auth: nop, Repair: nop, Project: nop, Quotation: nop})
	return e
}

func doJSON(e *echo.Echo, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ProtectedRoutesNeedToken(t *testing.T) {
	e := newTestEcho(t, nil, testConfig())

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/get-case-info"},
		{http.MethodGet, "/api/get-case-detail/PC-001"},
		{http.MethodPost, "/api/create-sent-repair"},
		{http.MethodPost, "/api/update-project"},
		{http.MethodGet, "/api/quotation/QT-001"},
		{http.MethodDelete, "/api/quotation/QT-001"},
		{http.MethodGet, "/api/dashboard/statistics"},
		{http.MethodGet, "/api/member/authen"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := doJSON(e, route.method, route.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_RefreshTokenIsNotAccess(t *testing.T) {
	cfg := testConfig()
	e := newTestEcho(t, nil, cfg)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, zap.NewNop())
	_, refresh, err := jwtSvc.GenerateTokens(1, "tech@example.com")
	require.NoError(t, err)

	rec := doJSON(e, http.MethodGet, "/api/dashboard/statistics", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PublicRoutesValidateBeforeStorage(t *testing.T) {
	e := newTestEcho(t, nil, testConfig())

	rec := doJSON(e, http.MethodPost, "/api/member/register", "", map[string]string{"email": "not-an-email", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/member/login", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/member/refresh", "", map[string]string{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// RepairOfficeSuite drives the whole API against TEST_DATABASE_URL.
type RepairOfficeSuite struct {
	suite.Suite
	Echo  *echo.Echo
	Pool  *pgxpool.Pool
	Token string
}

func (s *RepairOfficeSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := postgresql.ConnectDB(ctx, dsn, 4, zap.NewNop())
	s.Require().NoError(err)
	s.Pool = pool

	sqlDB := stdlib.OpenDBFromPool(pool)
	s.Require().NoError(migrations.Up(ctx, sqlDB))
	s.Require().NoError(sqlDB.Close())

	_, err = pool.Exec(ctx, `TRUNCATE TABLE document_items, document_sections, documents, project_images, projects, repair_cases, sent_repairs, members RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)

	s.Echo = newTestEcho(s.T(), postgresql.NewDB(pool, zap.NewNop()), testConfig())

	rec := doJSON(s.Echo, http.MethodPost, "/api/member/register", "", map[string]string{
		"email": "desk@example.com", "password": "password123", "fname": "Front", "lname": "Desk",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(s.Echo, http.MethodPost, "/api/member/login", "", map[string]string{
		"email": "DESK@example.com", "password": "password123",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Body struct {
			Token string `json:"token"`
		} `json:"body"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &login))
	s.Token = login.Body.Token
}

func (s *RepairOfficeSuite) TearDownSuite() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *RepairOfficeSuite) TestRepairCaseFlow() {
	t := s.T()

	rec := doJSON(s.Echo, http.MethodPost, "/api/create-case", s.Token, map[string]interface{}{
		"cusFirstName": "สมชาย",
		"caseType":     "ซ่อมคอมพิวเตอร์",
		"datePickUp":   "2024-06-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"caseId":"PC-001"`)

	rec = doJSON(s.Echo, http.MethodPost, "/api/create-sent-repair", s.Token, map[string]interface{}{
		"caseSToMechanic": "ร้านช่าง",
		"refCaseId":       "PC-001",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"caseSId":"S-001"`)

	rec = doJSON(s.Echo, http.MethodGet, "/api/get-case-detail/PC-001", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"refSentRepairId":"S-001"`)

	rec = doJSON(s.Echo, http.MethodGet, "/api/print-case/PC-001", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `inline; filename="Repair-PC-001.pdf"`, rec.Header().Get("Content-Disposition"))

	rec = doJSON(s.Echo, http.MethodGet, "/api/export-case-info", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PK", rec.Body.String()[:2])

	rec = doJSON(s.Echo, http.MethodGet, "/api/dashboard/statistics", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalCases":2`)

	rec = doJSON(s.Echo, http.MethodPost, "/api/delete-case", s.Token, map[string]string{"caseId": "PC-404"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (s *RepairOfficeSuite) TestQuotationFlow() {
	t := s.T()

	rec := doJSON(s.Echo, http.MethodPost, "/api/quotation", s.Token, map[string]interface{}{
		"customer_name": "ลูกค้า",
		"productSections": []map[string]interface{}{
			{"section_name": "A", "items": []map[string]interface{}{
				{"description": "x", "quantity": "2", "unit_price": "100.25"},
			}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(s.Echo, http.MethodGet, "/api/quotation/QT-001", s.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"200.5"`)
	assert.Contains(t, rec.Body.String(), `"current_status":"QUOTATION"`)

	rec = doJSON(s.Echo, http.MethodPut, "/api/quotation/QT-404", s.Token, map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(s.Echo, http.MethodDelete, "/api/quotation/QT-001", s.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRepairOfficeSuite(t *testing.T) {
	suite.Run(t, new(RepairOfficeSuite))
}
