package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opspanel-backend/config"
	"opspanel-backend/internal/app"
	"opspanel-backend/internal/model"
	"opspanel-backend/internal/nav"
	"opspanel-backend/internal/session"
	"opspanel-backend/internal/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func (m *memStore) Load(_ context.Context, slot string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.slots[slot]
	return p, ok, nil
}

func (m *memStore) Save(_ context.Context, slot string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = payload
	return nil
}

type screenResponse struct {
	Screen    string          `json:"screen"`
	MachineID int64           `json:"machineId"`
	Title     string          `json:"title"`
	Body      json.RawMessage `json:"body"`
}

// PNG signature plus filler, enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

var testNow = time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Display.Timezone = "UTC"
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000

	a, err := app.New(context.Background(), cfg, &memStore{slots: map[string][]byte{}}, nil, func() time.Time { return testNow })
	require.NoError(t, err)

	sessions := session.NewStore(time.Hour)
	return NewRouter(cfg, nav.NewController(a, sessions, nil), sessions, nil)
}

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *client) json(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *client) multipart(method, path string, fields map[string]string, fileField string, file []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, form.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := form.CreateFormFile(fileField, "upload.png")
		require.NoError(c.t, err)
		_, err = fw.Write(file)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, form.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.do(req)
}

func login(t *testing.T, router *gin.Engine) *client {
	t.Helper()
	c := &client{t: t, router: router}
	w := c.json(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "opspanel_session" {
			c.cookie = ck
		}
	}
	require.NotNil(t, c.cookie, "login must set the session cookie")
	return c
}

func decodeScreen(t *testing.T, w *httptest.ResponseRecorder) screenResponse {
	t.Helper()
	var s screenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s), w.Body.String())
	return s
}

func TestSessionAndLogin(t *testing.T) {
	router := setupRouter(t)
	anon := &client{t: t, router: router}

	t.Run("Boot without a session is logged out", func(t *testing.T) {
		w := anon.json(http.MethodGet, "/api/session", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(nav.ScreenLoggedOut), decodeScreen(t, w).Screen)
	})

	t.Run("Protected routes need a session", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, anon.json(http.MethodGet, "/api/operators", nil).Code)
	})

	t.Run("Wrong password is rejected", func(t *testing.T) {
		w := anon.json(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Usuario o contraseña incorrectos"}`, w.Body.String())
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Login opens the menu and logout closes it", func(t *testing.T) {
		c := login(t, router)

		screen := decodeScreen(t, c.json(http.MethodGet, "/api/session", nil))
		assert.Equal(t, string(nav.ScreenMenu), screen.Screen)

		var stats view.Stats
		require.NoError(t, json.Unmarshal(screen.Body, &stats))
		assert.Equal(t, view.Stats{TotalOperators: 3, TotalMachines: 3, TotalReports: 1}, stats)

		w := c.json(http.MethodPost, "/api/logout", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(nav.ScreenLoggedOut), decodeScreen(t, w).Screen)
		assert.Equal(t, http.StatusUnauthorized, c.json(http.MethodGet, "/api/menu", nil).Code)
	})
}

func TestOperatorsEndpoints(t *testing.T) {
	c := login(t, setupRouter(t))

	t.Run("Create with JSON", func(t *testing.T) {
		w := c.json(http.MethodPost, "/api/operators", gin.H{
			"name": "Ana Ruiz", "number": "OP-004", "bloodType": "A-", "rfc": "ruaa900101ab1",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		screen := decodeScreen(t, w)
		assert.Equal(t, string(nav.ScreenOperators), screen.Screen)
		var ops view.OperatorsView
		require.NoError(t, json.Unmarshal(screen.Body, &ops))
		require.Len(t, ops.Cards, 4)
		assert.Equal(t, int64(4), ops.Cards[3].ID)
		assert.Equal(t, "RUAA900101AB1", ops.Cards[3].RFC)
		assert.Equal(t, "AR", ops.Cards[3].Initials)
	})

	t.Run("Edit with a multipart photo upload", func(t *testing.T) {
		w := c.multipart(http.MethodPut, "/api/operators/4", map[string]string{"name": "Ana Ruiz Díaz"}, "photoFile", pngBytes)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = c.json(http.MethodGet, "/api/operators/4/photo", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var photo view.OperatorPhoto
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &photo))
		assert.Equal(t, "Ana Ruiz Díaz", photo.Name)
		assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes), photo.Photo)

		// The edit form is submitted whole: fields left out are stored empty.
		w = c.json(http.MethodGet, "/api/operators/4", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var op model.Operator
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &op))
		assert.Equal(t, "Ana Ruiz Díaz", op.Name)
		assert.Empty(t, op.Number)
		assert.Empty(t, op.RFC)
	})

	t.Run("Edit of an unknown id is a no-op", func(t *testing.T) {
		w := c.json(http.MethodPut, "/api/operators/77", gin.H{"name": "Fantasma"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var ops view.OperatorsView
		require.NoError(t, json.Unmarshal(decodeScreen(t, w).Body, &ops))
		assert.Len(t, ops.Cards, 4)

		var stats view.Stats
		require.NoError(t, json.Unmarshal(decodeScreen(t, c.json(http.MethodGet, "/api/menu", nil)).Body, &stats))
		assert.Equal(t, 4, stats.TotalOperators)
	})

	t.Run("Non-image photo is a validation error", func(t *testing.T) {
		w := c.json(http.MethodPost, "/api/operators", gin.H{"name": "X", "photo": "data:text/plain,hola"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "imagen")
	})

	t.Run("Photo of an operator without one is not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/operators/1/photo", nil).Code)
	})

	t.Run("Delete of an absent id is a no-op", func(t *testing.T) {
		w := c.json(http.MethodDelete, "/api/operators/99", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var ops view.OperatorsView
		require.NoError(t, json.Unmarshal(decodeScreen(t, w).Body, &ops))
		assert.Len(t, ops.Cards, 4)
	})

	t.Run("Invalid id is rejected", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, c.json(http.MethodDelete, "/api/operators/abc", nil).Code)
	})
}

func TestCachedViewsFollowMutations(t *testing.T) {
	c := login(t, setupRouter(t))

	first := c.json(http.MethodGet, "/api/machines", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "HIT", c.json(http.MethodGet, "/api/machines", nil).Header().Get("X-Cache"))

	require.Equal(t, http.StatusOK, c.json(http.MethodDelete, "/api/machines/2", nil).Code)

	w := c.json(http.MethodGet, "/api/machines", nil)
	assert.Empty(t, w.Header().Get("X-Cache"))
	var machines view.MachinesView
	require.NoError(t, json.Unmarshal(decodeScreen(t, w).Body, &machines))
	assert.Len(t, machines.Cards, 2)
}

func TestReportsEndpoints(t *testing.T) {
	c := login(t, setupRouter(t))

	t.Run("Selecting an unknown machine is not found", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/machines/42/reports", nil).Code)
	})

	t.Run("Create requires an image", func(t *testing.T) {
		w := c.json(http.MethodPost, "/api/machines/2/reports", gin.H{"title": "Sin imagen"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Por favor selecciona una imagen para el reporte"}`, w.Body.String())
	})

	t.Run("Create with an uploaded image", func(t *testing.T) {
		w := c.multipart(http.MethodPost, "/api/machines/2/reports", map[string]string{"title": "Turno A"}, "imageFile", pngBytes)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		screen := decodeScreen(t, w)
		assert.Equal(t, string(nav.ScreenMachineReports), screen.Screen)
		assert.Equal(t, int64(2), screen.MachineID)
		assert.Equal(t, "Reportes: Fresadora convencional", screen.Title)

		var reports view.ReportsView
		require.NoError(t, json.Unmarshal(screen.Body, &reports))
		require.Len(t, reports.Cards, 1)
		assert.Equal(t, int64(2), reports.Cards[0].ID)
		assert.Equal(t, "15 de octubre de 2024", reports.Cards[0].FormattedDate)
	})

	t.Run("Results count reports per machine", func(t *testing.T) {
		var sel view.MachineSelectionView
		require.NoError(t, json.Unmarshal(decodeScreen(t, c.json(http.MethodGet, "/api/results", nil)).Body, &sel))
		require.Len(t, sel.Cards, 3)
		assert.Equal(t, "1 reporte", sel.Cards[0].CountLabel)
		assert.Equal(t, "1 reporte", sel.Cards[1].CountLabel)
		assert.Equal(t, "0 reportes", sel.Cards[2].CountLabel)
	})

	t.Run("Edit keeps the image", func(t *testing.T) {
		w := c.json(http.MethodPut, "/api/reports/2", gin.H{"title": "Turno B"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = c.json(http.MethodGet, "/api/reports/2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var card view.ReportCard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
		assert.Equal(t, "Turno B", card.Title)
		assert.Equal(t, int64(2), card.MachineID)
		assert.True(t, strings.HasPrefix(card.ImageData, "data:image/png;base64,"))
	})

	t.Run("Edit of an unknown id creates nothing", func(t *testing.T) {
		w := c.json(http.MethodPut, "/api/reports/99", gin.H{"title": "fantasma"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, string(nav.ScreenMachineSelection), decodeScreen(t, w).Screen)

		assert.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/reports/3", nil).Code)
		assert.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/reports/99", nil).Code)

		var card view.ReportCard
		require.NoError(t, json.Unmarshal(c.json(http.MethodGet, "/api/reports/2", nil).Body.Bytes(), &card))
		assert.Equal(t, "Turno B", card.Title)
	})

	t.Run("Delete returns to the machine reports", func(t *testing.T) {
		w := c.json(http.MethodDelete, "/api/reports/2", nil)
		require.Equal(t, http.StatusOK, w.Code)
		screen := decodeScreen(t, w)
		assert.Equal(t, string(nav.ScreenMachineReports), screen.Screen)
		assert.Equal(t, int64(2), screen.MachineID)

		assert.Equal(t, http.StatusNotFound, c.json(http.MethodGet, "/api/reports/2", nil).Code)
	})
}
