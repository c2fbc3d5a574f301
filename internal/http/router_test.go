package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetfin/internal/auth"
	intconfig "fleetfin/internal/config"
	api "fleetfin/internal/http"
	"fleetfin/internal/services"
	"fleetfin/internal/testutil"
	"fleetfin/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	t  *testing.T
	r  *gin.Engine
	db *sql.DB
	fx testutil.Fixtures
}

func newServer(t *testing.T) *server {
	t.Helper()
	prev := utils.Now
	utils.Now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local) }
	t.Cleanup(func() { utils.Now = prev })

	db := testutil.OpenDB(t)
	fx := testutil.Seed(t, db)
	env := intconfig.Env{JWTSecret: "test-secret", TokenTTL: time.Hour, CORSOrigins: []string{"http://localhost:3000"}}
	users := services.UserService{DB: db, Tokens: auth.NewTokens(env.JWTSecret, env.TokenTTL)}
	_, err := users.EnsureBootstrapAdmin(context.Background(), "admin", "admin-pass")
	require.NoError(t, err)
	_, err = users.Create(context.Background(), testutil.Admin(), services.UserInput{Name: "Vera", Username: "viewer", Password: "viewer-pass", Role: "viewer"})
	require.NoError(t, err)
	return &server{t: t, r: api.NewRouter(env), db: db, fx: fx}
}

func (s *server) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	return w
}

func (s *server) login(username, password string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	return res.Token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	assert.NotEmpty(t, body.RequestID)
	return body.Code
}

func TestHealthIsPublic(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/api/v1/drivers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/v1/drivers", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))

	token := s.login("admin", "admin-pass")
	w = s.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestViewerCannotWrite(t *testing.T) {
	s := newServer(t)
	token := s.login("viewer", "viewer-pass")

	w := s.do(http.MethodGet, "/api/v1/drivers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/drivers", token, map[string]any{"name": "New"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/v1/audit", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTokenFollowsUserChanges(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	users := services.UserService{DB: s.db}
	op, err := users.Create(ctx, testutil.Admin(), services.UserInput{Name: "Otto", Username: "otto", Password: "otto-pass", Role: "operator"})
	require.NoError(t, err)
	token := s.login("otto", "otto-pass")

	w := s.do(http.MethodPost, "/api/v1/drivers", token, map[string]any{"name": "Lia Souza"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	_, err = users.Update(ctx, testutil.Admin(), op.ID, services.UserInput{Role: "viewer"})
	require.NoError(t, err)
	w = s.do(http.MethodPost, "/api/v1/drivers", token, map[string]any{"name": "Leo Costa"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/v1/drivers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	off := false
	_, err = users.Update(ctx, testutil.Admin(), op.ID, services.UserInput{Active: &off})
	require.NoError(t, err)
	w = s.do(http.MethodGet, "/api/v1/drivers", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorCode(t, w))
}

func TestCashCloseFlow(t *testing.T) {
	s := newServer(t)
	token := s.login("admin", "admin-pass")
	const day = "2024-03-10"

	w := s.do(http.MethodPost, "/api/v1/route-cash", token, map[string]any{
		"date": day, "routeId": s.fx.RouteID, "vehicleId": s.fx.VehicleID, "driverId": s.fx.DriverID,
		"passengers": 12, "cashAmount": "120.50", "electronicAmount": 30,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/route-cash", token, map[string]any{"date": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/v1/closes/"+day+"/preview?countedCash=100", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"expectedCash":"120.5"`)

	w = s.do(http.MethodPost, "/api/v1/closes/"+day, token, map[string]any{"countedCash": "120.50", "notes": "ok"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/route-cash", token, map[string]any{
		"date": day, "routeId": s.fx.RouteID, "vehicleId": s.fx.VehicleID, "driverId": s.fx.DriverID, "cashAmount": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/v1/reports/daily/"+day+"?format=pdf", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = s.do(http.MethodPost, "/api/v1/closes/"+day+"/reopen", token, map[string]any{"reason": "late receipt"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/audit?action=reopen", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"reopen"`)
}

func TestRegistrySoftDelete(t *testing.T) {
	s := newServer(t)
	token := s.login("admin", "admin-pass")

	w := s.do(http.MethodDelete, "/api/v1/vehicles/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/drivers/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := "/api/v1/vehicles/" + jsonID(s.fx.VehicleID)
	w = s.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list []map[string]any
	w = s.do(http.MethodGet, "/api/v1/vehicles", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Empty(t, list)

	w = s.do(http.MethodGet, "/api/v1/vehicles?active=all", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = s.do(http.MethodPost, path+"/activate", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBackupExportRequiresPermission(t *testing.T) {
	s := newServer(t)
	viewer := s.login("viewer", "viewer-pass")
	w := s.do(http.MethodGet, "/api/v1/backup/export", viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := s.login("admin", "admin-pass")
	w = s.do(http.MethodGet, "/api/v1/backup/export?gzip=true", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/gzip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".json.gz")
}

func TestDBCheckWithMock(t *testing.T) {
	s := newServer(t)
	token := s.login("admin", "admin-pass")

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	intconfig.UseDB(mockDB, intconfig.DriverMySQL)

	// the auth middleware reloads the caller first
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \?`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash", "role", "active", "created_at", "updated_at"}).
			AddRow(1, "Administrator", "admin", "x", "admin", true, "", ""))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	w := s.do(http.MethodGet, "/api/v1/db-check", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"migrations":[1]`)
	assert.Contains(t, w.Body.String(), `"driver":"mysql"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownRoute(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/v1/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
