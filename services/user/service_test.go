package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reservas/database"
	"reservas/handlers"
	"reservas/models"
	"reservas/routes"
	"reservas/services/api"
	"reservas/services/auth"
	"reservas/services/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loggedIn(t *testing.T, email, password string) *user.Service {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.InitDB()
	require.NoError(t, err)
	srv := httptest.NewServer(routes.NewRouter(handlers.NewHandlerBundle(store, time.Hour), zap.NewNop(), 0))
	t.Cleanup(srv.Close)

	session := auth.NewSession()
	client := api.NewClient(srv.URL+"/api", session, api.Options{})
	_, err = auth.NewService(client, session, nil).Login(context.Background(), models.LoginCredentials{Email: email, Password: password})
	require.NoError(t, err)
	return user.NewService(client, nil)
}

func TestAdminManagesUsers(t *testing.T) {
	svc := loggedIn(t, database.SeedAdminEmail, database.SeedAdminPassword)
	ctx := context.Background()

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	created, err := svc.Create(ctx, models.UserInput{Name: "Luis", Email: "luis@reservas.test", Password: "temporal1"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "luis@reservas.test", created.Email)
	assert.True(t, bool(created.MustChangePassword))

	_, err = svc.Create(ctx, models.UserInput{Name: "Luis", Email: "luis@reservas.test", Password: "temporal1"})
	assert.True(t, api.IsStatus(err, http.StatusUnprocessableEntity))

	roles, err := svc.Roles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestCreateRequiresPassword(t *testing.T) {
	svc := user.NewService(api.NewClient("http://127.0.0.1:0", nil, api.Options{}), nil)
	_, err := svc.Create(context.Background(), models.UserInput{Name: "Luis", Email: "luis@reservas.test"})
	assert.ErrorContains(t, err, "password is required")
}

func TestStudentCannotListUsers(t *testing.T) {
	svc := loggedIn(t, database.SeedStudentEmail, database.SeedStudentPassword)
	_, err := svc.List(context.Background())
	assert.True(t, api.IsStatus(err, http.StatusForbidden))
}
