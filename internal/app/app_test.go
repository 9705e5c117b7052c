package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Tasklist/internal/config"
	"Tasklist/internal/migrations"
	"Tasklist/internal/repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.App.Env = "test"
	cfg.App.Version = "1.0.0-test"
	cfg.App.Locale = "en-US"
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.DSN = filepath.Join(t.TempDir(), "tasks.db")
	cfg.DB.Migrate = true
	cfg.CORS.AllowOrigins = "*"
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func post(a *App, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(a, req)
}

func page(t *testing.T, a *App) string {
	t.Helper()
	w := serve(a, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func exerciseTaskFlow(t *testing.T, a *App) {
	t.Helper()
	assert.Contains(t, page(t, a), `class="empty"`)

	for _, title := range []string{"first", "second", "third"} {
		w := post(a, "/add", url.Values{"title": {title}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	}

	html := page(t, a)
	assert.Equal(t, 3, strings.Count(html, `<li class="item">`))
	assert.Less(t, strings.Index(html, ">third<"), strings.Index(html, ">first<"))

	// ids are assigned 1, 2, 3 on a fresh schema
	require.Equal(t, http.StatusSeeOther, post(a, "/toggle/1", nil).Code)
	assert.Contains(t, page(t, a), `<span class="title done">first</span>`)

	require.Equal(t, http.StatusSeeOther, post(a, "/delete/2", nil).Code)
	html = page(t, a)
	assert.NotContains(t, html, ">second<")
	assert.Equal(t, 2, strings.Count(html, `<li class="item">`))
}

func TestTaskFlowSQLite(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	exerciseTaskFlow(t, a)
}

func TestTaskFlowWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	require.NoError(t, cfg.Redis.DefaultTTL.SetValue("60"))

	a := newTestApp(t, cfg)
	exerciseTaskFlow(t, a)
	// three adds, one toggle and one delete
	assert.True(t, mr.Exists("items:list:5"))
}

func TestDataSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg)
	require.NoError(t, err)
	require.Equal(t, http.StatusSeeOther, post(a, "/add", url.Values{"title": {"persisted"}}).Code)
	require.NoError(t, a.Close(context.Background()))

	b := newTestApp(t, cfg)
	assert.Contains(t, page(t, b), ">persisted<")
}

func TestHealthAndVersion(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "test", health["env"])

	w = serve(a, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"version":"1.0.0-test"}`, w.Body.String())
}

func TestAcceptLanguage(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	w := serve(a, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<html lang="zh-CN">`)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig(t)
	cfg.CORS.AllowOrigins = "https://tasks.example"
	a := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/add", nil)
	req.Header.Set("Origin", "https://tasks.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := serve(a, req)
	assert.Equal(t, "https://tasks.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsUnsupportedLocale(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.Locale = "fr-FR"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewFailsWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Redis.Addr = addr
	start := time.Now()
	_, err := New(cfg)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestNewWithoutMigrationsNeedsSchema(t *testing.T) {
	cfg := testConfig(t)
	cfg.DB.Migrate = false
	a := newTestApp(t, cfg)

	w := serve(a, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRunMigrationsReportsVersion(t *testing.T) {
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, runMigrations(db, migrations.DialectSQLite))
	v, err := migrations.Version(db, migrations.DialectSQLite)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)

	assert.Error(t, runMigrations(db, "oracle"))
}
