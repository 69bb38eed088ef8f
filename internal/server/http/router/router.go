package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/PankiTrejd/naracki/internal/config"
	"github.com/PankiTrejd/naracki/internal/metrics"
	"github.com/PankiTrejd/naracki/internal/server/http/handlers"
	"github.com/PankiTrejd/naracki/internal/server/http/middleware"
)

const multipartMemory = 8 << 20

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OperationsFacade, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = multipartMemory

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Metrics(m))
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	engine.Use(middleware.DecompressRequest(cfg.MaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	expenseHandler := handlers.NewExpenseHandler(facade)
	goalHandler := handlers.NewGoalHandler(facade)
	dashboardHandler := handlers.NewDashboardHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/login", authHandler.Login)
	api.GET("/health", dashboardHandler.Health)

	operator := api.Group("")
	if facade.AuthEnabled() {
		operator.Use(middleware.AuthRequired(facade))
	}
	operator.POST("/orders", orderHandler.Create)
	operator.GET("/orders", orderHandler.List)
	operator.GET("/orders/:id", orderHandler.Get)
	operator.DELETE("/orders/:id", orderHandler.Delete)
	operator.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	operator.PUT("/orders/:id/tracking", orderHandler.SetTracking)
	operator.POST("/orders/:id/attachments", orderHandler.Attach)

	operator.GET("/expenses", expenseHandler.List)
	operator.POST("/expenses", expenseHandler.Create)
	operator.DELETE("/expenses/:id", expenseHandler.Delete)

	operator.GET("/goal", goalHandler.Get)
	operator.PUT("/goal/:id", goalHandler.Update)
	operator.POST("/goal/:id/add", goalHandler.Add)

	operator.GET("/dashboard/summary", dashboardHandler.Summary)

	return engine
}

// corsConfig allows the listed origins. An empty list rejects every
// cross-origin request and "*" allows any origin.
func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Encoding"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	switch {
	case len(origins) == 0:
		conf.AllowOriginFunc = func(string) bool { return false }
	case slices.Contains(origins, "*"):
		conf.AllowAllOrigins = true
		conf.AllowCredentials = false
	default:
		conf.AllowOrigins = origins
	}
	return conf
}
