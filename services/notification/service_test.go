package notification_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"reservas/database"
	"reservas/handlers"
	"reservas/models"
	"reservas/routes"
	"reservas/services/api"
	"reservas/services/auth"
	"reservas/services/cache"
	"reservas/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationsLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store, err := database.InitDB()
	require.NoError(t, err)
	srv := httptest.NewServer(routes.NewRouter(handlers.NewHandlerBundle(store, time.Hour), zap.NewNop(), 0))
	t.Cleanup(srv.Close)

	session := auth.NewSession()
	client := api.NewClient(srv.URL+"/api", session, api.Options{})
	resp, err := auth.NewService(client, session, nil).Login(ctx, models.LoginCredentials{
		Email: database.SeedStudentEmail, Password: database.SeedStudentPassword,
	})
	require.NoError(t, err)

	for _, day := range []string{"2024-03-15", "2024-03-16"} {
		_, err := store.CreateReservation(resp.User.ID, models.BookingRequest{ResourceID: 1, Start: day + " 10:00:00", End: day + " 12:00:00"})
		require.NoError(t, err)
	}

	svc := notification.NewService(client, cache.NewMemoryQueryCache(time.Minute), nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Contains(t, list[0].Message, "2024-03-16", "newest first")

	unread, err := svc.Unread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	_, err = svc.MarkRead(ctx, list[0].ID)
	require.NoError(t, err)
	unread, err = svc.Unread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread, "marking read drops the cached list")

	_, err = svc.MarkAllRead(ctx)
	require.NoError(t, err)
	unread, err = svc.Unread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
