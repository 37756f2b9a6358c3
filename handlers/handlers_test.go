package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"reservas/database"
	"reservas/handlers"
	"reservas/models"
	"reservas/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := database.InitDB()
	require.NoError(t, err)
	return routes.NewRouter(handlers.NewHandlerBundle(store, time.Hour), zap.NewNop(), 0)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/login", "", models.LoginCredentials{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPingAndHealth(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode[models.MessageResponse](t, w).Message)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodPost, "/api/login", "", models.LoginCredentials{Email: database.SeedStudentEmail, Password: database.SeedStudentPassword})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.LoginResponse](t, w)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Ana Estudiante", resp.User.Name)

	w = do(t, r, http.MethodPost, "/api/login", "", models.LoginCredentials{Email: database.SeedStudentEmail, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/login", "", models.LoginCredentials{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := newRouter(t)

	w := do(t, r, http.MethodGet, "/api/reservas", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/api/reservas", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newRouter(t)
	token := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)

	w := do(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, database.SeedStudentEmail, decode[models.User](t, w).Email)

	w = do(t, r, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	r := newRouter(t)
	student := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)
	admin := login(t, r, database.SeedAdminEmail, database.SeedAdminPassword)

	w := do(t, r, http.MethodGet, "/api/reservas/reportes/estadisticas", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/reservas/reportes/estadisticas", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/usuarios", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[struct {
		Data []models.User `json:"data"`
	}](t, w)
	assert.Len(t, users.Data, 2)
}

func TestConflictCheckAndCreate(t *testing.T) {
	r := newRouter(t)
	token := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)

	window := models.ConflictCheckRequest{ResourceID: 1, Start: "2024-03-15 10:00:00", End: "2024-03-15 12:00:00"}

	w := do(t, r, http.MethodPost, "/api/reservas/verificar-conflictos", token, window)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.ConflictReport](t, w).HasConflict)

	w = do(t, r, http.MethodPost, "/api/reservas", token, models.BookingRequest{
		ResourceID: 1, Start: window.Start, End: window.End, Comments: "Práctica",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.ReservationResponse](t, w)
	assert.Equal(t, "Reservation created successfully", created.Message)
	require.NotNil(t, created.Reservation)
	assert.Equal(t, "Práctica", created.Reservation.Comments)

	w = do(t, r, http.MethodPost, "/api/reservas/verificar-conflictos", token, models.ConflictCheckRequest{
		ResourceID: 1, Start: "2024-03-15 11:00:00", End: "2024-03-15 13:00:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[models.ConflictReport](t, w)
	assert.True(t, report.HasConflict)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "Ana Estudiante", report.Conflicts[0].Requester)

	w = do(t, r, http.MethodPost, "/api/reservas/verificar-conflictos", token, models.ConflictCheckRequest{
		ResourceID: 1, Start: "2024-03-15 12:00:00", End: "2024-03-15 13:00:00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.ConflictReport](t, w).HasConflict, "touching windows do not overlap")
}

func TestCreateLateConflictAnswers409(t *testing.T) {
	r := newRouter(t)
	student := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)
	admin := login(t, r, database.SeedAdminEmail, database.SeedAdminPassword)

	req := models.BookingRequest{ResourceID: 2, Start: "2024-03-15 10:00:00", End: "2024-03-15 12:00:00"}
	w := do(t, r, http.MethodPost, "/api/reservas", admin, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/reservas", student, req)
	require.Equal(t, http.StatusConflict, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "The resource is already booked in this time range.", body["message"])
	assert.Equal(t, "Conflict with reservation by Administrador (2024-03-15 10:00:00 - 2024-03-15 12:00:00)", body["error"])
}

func TestCreateValidation(t *testing.T) {
	r := newRouter(t)
	token := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)

	tests := []struct {
		name  string
		req   models.BookingRequest
		field string
	}{
		{"end before start", models.BookingRequest{ResourceID: 1, Start: "2024-03-15 12:00:00", End: "2024-03-15 10:00:00"}, "fecha_fin"},
		{"malformed date", models.BookingRequest{ResourceID: 1, Start: "2024-03-15T10:00", End: "2024-03-15 12:00:00"}, "fecha_inicio"},
		{"unavailable resource", models.BookingRequest{ResourceID: 3, Start: "2024-03-15 10:00:00", End: "2024-03-15 12:00:00"}, "recurso_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/reservas", token, tt.req)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			body := decode[struct {
				Message string              `json:"message"`
				Errors  map[string][]string `json:"errors"`
			}](t, w)
			assert.Equal(t, "The given data was invalid.", body.Message)
			assert.Contains(t, body.Errors, tt.field)
		})
	}

	w := do(t, r, http.MethodPost, "/api/reservas", token, models.BookingRequest{ResourceID: 42, Start: "2024-03-15 10:00:00", End: "2024-03-15 12:00:00"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelAndHistory(t *testing.T) {
	r := newRouter(t)
	token := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)

	w := do(t, r, http.MethodPost, "/api/reservas", token, models.BookingRequest{ResourceID: 1, Start: "2024-03-15 10:00:00", End: "2024-03-15 12:00:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.ReservationResponse](t, w).Reservation.ID

	w = do(t, r, http.MethodPut, "/api/reservas/"+strconv.Itoa(id)+"/cancelar", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReservationCancelled, decode[models.ReservationResponse](t, w).Reservation.Status)

	w = do(t, r, http.MethodPut, "/api/reservas/"+strconv.Itoa(id)+"/cancelar", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, r, http.MethodGet, "/api/reservas/"+strconv.Itoa(id)+"/historial", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[struct {
		Data []models.HistoryLog `json:"data"`
	}](t, w)
	require.Len(t, logs.Data, 2)
	assert.Equal(t, "creada", logs.Data[0].Action)
	assert.Equal(t, "cancelada", logs.Data[1].Action)

	w = do(t, r, http.MethodGet, "/api/reservas/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResourcesAndNotifications(t *testing.T) {
	r := newRouter(t)
	token := login(t, r, database.SeedStudentEmail, database.SeedStudentPassword)

	w := do(t, r, http.MethodGet, "/api/recursos?disponible=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resources := decode[struct {
		Data []models.Resource `json:"data"`
	}](t, w)
	assert.Len(t, resources.Data, 2)

	w = do(t, r, http.MethodGet, "/api/recursos/1/disponibilidad?fecha_inicio=2024-03-15+10:00:00&fecha_fin=2024-03-15+12:00:00", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Availability](t, w).Available)

	w = do(t, r, http.MethodPost, "/api/reservas", token, models.BookingRequest{ResourceID: 1, Start: "2024-03-15 10:00:00", End: "2024-03-15 12:00:00"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/api/notificaciones", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decode[struct {
		Data []models.Notification `json:"data"`
	}](t, w)
	require.Len(t, notifications.Data, 1)

	w = do(t, r, http.MethodPut, "/api/notificaciones/"+strconv.Itoa(notifications.Data[0].ID)+"/leer", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
