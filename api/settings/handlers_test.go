package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apiauth "github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/auth"
	"github.com/killallgit/transcriptflow-api/internal/services/settings"
)

type tokenTable map[string]string

func (t tokenTable) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if sub, ok := t[token]; ok {
		return &auth.Claims{Sub: sub, Role: auth.AuthenticatedRole}, nil
	}
	return nil, auth.ErrInvalidToken
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.UserSettings{}))

	deps := &types.Dependencies{SettingsService: settings.NewService(settings.NewRepository(db))}
	authHandler := apiauth.NewHandler(tokenTable{"alice-token": "alice", "bob-token": "bob"})

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1/settings"), deps, authHandler, func(c *gin.Context) { c.Next() })
	return router
}

func do(router *gin.Engine, method, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, "/api/v1/settings", &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSettings(t *testing.T, w *httptest.ResponseRecorder) models.UserSettings {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var s models.UserSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestGet(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s := decodeSettings(t, do(router, http.MethodGet, "alice-token", nil))
	assert.Equal(t, "alice", s.UserID)
	assert.Equal(t, "txt", s.DefaultExportFormat)
	assert.Equal(t, models.ThemeSystem, s.Theme)
}

func TestUpdate(t *testing.T) {
	router := setupRouter(t)

	s := decodeSettings(t, do(router, http.MethodPut, "alice-token", map[string]any{"defaultExportFormat": "srt"}))
	assert.Equal(t, "srt", s.DefaultExportFormat)
	assert.Equal(t, models.ThemeSystem, s.Theme)

	s = decodeSettings(t, do(router, http.MethodPatch, "alice-token", map[string]any{"theme": "dark"}))
	assert.Equal(t, "srt", s.DefaultExportFormat)
	assert.Equal(t, models.ThemeDark, s.Theme)

	s = decodeSettings(t, do(router, http.MethodGet, "alice-token", nil))
	assert.Equal(t, "srt", s.DefaultExportFormat)
	assert.Equal(t, models.ThemeDark, s.Theme)

	s = decodeSettings(t, do(router, http.MethodGet, "bob-token", nil))
	assert.Equal(t, "txt", s.DefaultExportFormat)

	t.Run("invalid values", func(t *testing.T) {
		for _, body := range []map[string]any{
			{"defaultExportFormat": "docx"},
			{"defaultExportFormat": ""},
			{"theme": "neon"},
		} {
			w := do(router, http.MethodPut, "alice-token", body)
			require.Equal(t, http.StatusBadRequest, w.Code, body)
			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION", resp.Error)
		}

		s := decodeSettings(t, do(router, http.MethodGet, "alice-token", nil))
		assert.Equal(t, "srt", s.DefaultExportFormat)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer alice-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
