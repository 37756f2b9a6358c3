package routes

import (
	"net/http"
	"time"

	"reservas/handlers"
	"reservas/middleware"
	"reservas/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the stub API engine with its global middleware.
func NewRouter(hb *handlers.HandlerBundle, logger *zap.Logger, requestsPerMinute int) *gin.Engine {
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(requestsPerMinute))
	RegisterRoutes(router, hb)
	return router
}

// RegisterPublicRoutes registers endpoints reachable without a token.
func RegisterPublicRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.GET("/ping", hb.Ping)
	api.POST("/login", hb.Login)
	api.POST("/auth/change-password-first-login", hb.ChangePasswordFirstLogin)
}

// RegisterReservationRoutes registers the account, resource, reservation and
// notification endpoints of authenticated users.
func RegisterReservationRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(hb.Store))
	{
		protected.POST("/logout", hb.Logout)
		protected.GET("/me", hb.Me)

		protected.GET("/recursos", hb.ListResources)
		protected.GET("/recursos/:id", hb.GetResource)
		protected.GET("/recursos/:id/disponibilidad", hb.ResourceAvailability)
		protected.GET("/tipos-recursos", hb.ListResourceTypes)
		protected.GET("/tipos-recursos/:id", hb.GetResourceType)

		protected.GET("/reservas", hb.ListReservations)
		protected.POST("/reservas", hb.CreateReservation)
		protected.POST("/reservas/verificar-conflictos", hb.CheckConflicts)
		protected.GET("/reservas/:id", hb.GetReservation)
		protected.PUT("/reservas/:id", hb.UpdateReservation)
		protected.PUT("/reservas/:id/cancelar", hb.CancelReservation)
		protected.GET("/reservas/:id/historial", hb.ReservationHistory)

		protected.GET("/notificaciones", hb.ListNotifications)
		protected.PUT("/notificaciones/marcar-todas-leidas", hb.MarkAllNotificationsRead)
		protected.PUT("/notificaciones/:id/leer", hb.MarkNotificationRead)
	}
}

// RegisterAdminRoutes registers endpoints reserved to the admin role.
func RegisterAdminRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	admin := api.Group("")
	admin.Use(middleware.JWTAuthMiddleware(hb.Store), middleware.AdminOnlyMiddleware())
	{
		admin.GET("/reservas/reportes/estadisticas", hb.Statistics)
		admin.GET("/usuarios", hb.ListUsers)
		admin.POST("/usuarios", hb.CreateUser)
		admin.GET("/roles", hb.ListRoles)
	}
}

// RegisterHealthRoute registers a health-check endpoint outside /api.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	api := r.Group("/api")
	RegisterPublicRoutes(api, hb)
	RegisterReservationRoutes(api, hb)
	RegisterAdminRoutes(api, hb)
}
