package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"slotbook/internal/domain/profile"
	"slotbook/internal/handler/api"
	"slotbook/internal/handler/middleware"
	"slotbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *slog.Logger,
	slotHandler *api.SlotHandler,
	profileHandler *api.ProfileHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, slotHandler, profileHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(logger, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, slotHandler *api.SlotHandler, profileHandler *api.ProfileHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireProvider := authMiddleware.RequireRole(profile.RoleProvider)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		slots := apiGroup.Group("/slots")
		addRoutes(slots, []route{
			{Method: http.MethodPost, Path: "", Handler: slotHandler.CreateSlot},
			{Method: http.MethodGet, Path: "", Handler: slotHandler.ListSlots},
			{Method: http.MethodGet, Path: "/watch", Handler: slotHandler.WatchSlots},
			{Method: http.MethodGet, Path: "/:id", Handler: slotHandler.GetSlot},
			{Method: http.MethodDelete, Path: "/:id", Handler: slotHandler.CancelSlot},
			{Method: http.MethodPost, Path: "/:id/claim", Handler: slotHandler.ClaimSlot},
		})

		addRoutes(apiGroup.Group("/providers"), []route{
			{Method: http.MethodGet, Path: "/me/stats", Handler: profileHandler.MyStats, Mw: []gin.HandlerFunc{requireProvider}},
		})

		addRoutes(apiGroup.Group("/profiles"), []route{
			{Method: http.MethodGet, Path: "/me", Handler: profileHandler.GetMe},
			{Method: http.MethodPut, Path: "/me", Handler: profileHandler.PutMe},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
