// internal/api/routes/routes.go
package routes

import (
	"bulk-order-api-server/config"
	"bulk-order-api-server/internal/api/handlers"
	"bulk-order-api-server/internal/api/middleware"
	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/metrics"
	"bulk-order-api-server/internal/models"
	"bulk-order-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config     config.Config
	Issuer     *auth.TokenIssuer
	BulkOrders handlers.BulkOrderService
	Users      handlers.UserFinder
	DB         handlers.Pinger
	Hub        *socket.Hub
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
}

func SetupRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = d.Config.Server.CORSOrigins
	if len(corsCfg.AllowOrigins) == 0 || (len(corsCfg.AllowOrigins) == 1 && corsCfg.AllowOrigins[0] == "*") {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	router.Use(cors.New(corsCfg))

	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	bulkOrderHandler := &handlers.BulkOrderHandler{Service: d.BulkOrders}
	userHandler := &handlers.UserHandler{Users: d.Users, Issuer: d.Issuer}
	webSocketHandler := &handlers.WebSocketHandler{Hub: d.Hub, Issuer: d.Issuer}
	healthHandler := &handlers.HealthHandler{DB: d.DB}

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		api.GET("/ws", webSocketHandler.ServeWs)
		api.POST("/auth/login", userHandler.Login)

		bulkOrders := api.Group("/bulk-order")
		bulkOrders.Use(middleware.Authenticate(d.Issuer))
		{
			bulkOrders.POST("/create", bulkOrderHandler.CreateBulkOrder)
			bulkOrders.GET("/my-orders", bulkOrderHandler.GetMyBulkOrders)
			bulkOrders.GET("/details/:orderId", bulkOrderHandler.GetBulkOrderDetails)

			admin := bulkOrders.Group("/admin")
			admin.Use(middleware.Authorize(models.RoleAdmin, models.RoleSuperAdmin))
			{
				admin.GET("/all", bulkOrderHandler.GetAllBulkOrders)
				admin.PUT("/update-status/:orderId", bulkOrderHandler.UpdateBulkOrderStatus)
				admin.DELETE("/delete/:orderId", bulkOrderHandler.DeleteBulkOrder)
				admin.GET("/analytics", bulkOrderHandler.GetAnalytics)
			}
		}
	}

	return router
}
