package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarvar/parkpulse/internal/logger"
	"github.com/sarvar/parkpulse/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Health and metrics endpoints
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	// Read side is open; operational endpoints require a bearer token.
	api := r.Group("/api/v1")
	{
		h.registerParkRoutes(api)
	}

	ops := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerOpsRoutes(ops)
	}
}

func (h *Handler) registerParkRoutes(api *gin.RouterGroup) {
	api.GET("/park", h.getParkOverview)
	api.GET("/waits", h.getCurrentWaits)

	attractions := api.Group("/attractions")
	{
		attractions.GET("/:id/history", h.getAttractionHistory)
		attractions.GET("/:id/hourly", h.getHourlyWaits)
	}
}

func (h *Handler) registerOpsRoutes(api *gin.RouterGroup) {
	api.GET("/calls", h.getCallLogs)
	api.POST("/refresh", h.triggerRefresh)
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
