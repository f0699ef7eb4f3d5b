package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/autolog/logagent/internal/controllers"
	"github.com/autolog/logagent/internal/middleware"
)

// Dependencies are the controllers and settings the router needs.
type Dependencies struct {
	Analyses  *controllers.AnalysisController
	LLM       *controllers.LLMController
	Health    *controllers.HealthController
	JWTSecret string
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.GET("/health", deps.Health.Health)

	api := r.Group("/api/v1")
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.JWTSecret))
	{
		protected.POST("/parse", deps.Analyses.ParseLogs)

		analyses := protected.Group("/analyses")
		{
			analyses.POST("", deps.Analyses.CreateAnalysis)
			analyses.GET("", deps.Analyses.GetAnalyses)
			analyses.GET("/:id", deps.Analyses.GetAnalysis)
			analyses.GET("/:id/report", deps.Analyses.GetReport)
			analyses.DELETE("/:id", deps.Analyses.DeleteAnalysis)
		}

		llm := protected.Group("/llm")
		{
			llm.GET("/status", deps.LLM.GetLLMStatus)
		}

		admin := protected.Group("/admin")
		{
			admin.GET("/llm-api-calls", deps.LLM.GetLLMAPICalls)
			admin.DELETE("/llm-api-calls", deps.LLM.ClearLLMAPICalls)
		}
	}
}

// NewRouter builds a gin engine with the standard middleware and routes.
func NewRouter(env, corsOrigin string, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.CustomLoggerMiddleware())
	r.Use(middleware.CORSMiddleware(env, corsOrigin))
	r.Use(gin.Recovery())

	SetupRoutes(r, deps)
	return r
}
