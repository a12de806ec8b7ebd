package router

import (
	"github.com/cuongbtq/jobster-api/internal/api/apperror"
	"github.com/cuongbtq/jobster-api/internal/api/handler"
	"github.com/cuongbtq/jobster-api/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Options holds router settings that are not handler dependencies
type Options struct {
	AllowedOrigins []string
	MetricsPath    string // empty disables the metrics endpoint
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware(opts.AllowedOrigins))
	r.Use(MetricsMiddleware())
	r.Use(apperror.Middleware(deps.Logger))

	healthHandler := handler.NewHealthHandler(deps)
	r.GET("/health", healthHandler.Health)

	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	// Initialize job handler
	jobHandler := handler.NewJobHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs", deps.Auth.Middleware())
		{
			// GET /api/v1/jobs - List jobs with search, filters, sort and pagination
			jobs.GET("", jobHandler.ListJobs)

			// POST /api/v1/jobs - Create a job
			jobs.POST("", jobHandler.CreateJob)

			// GET /api/v1/jobs/stats - Count jobs per status
			jobs.GET("/stats", jobHandler.ShowStats)

			// GET /api/v1/jobs/:id - Get one job
			jobs.GET("/:id", jobHandler.GetJob)

			// PATCH /api/v1/jobs/:id - Update a job
			jobs.PATCH("/:id", jobHandler.UpdateJob)
			jobs.PUT("/:id", jobHandler.UpdateJob)

			// DELETE /api/v1/jobs/:id - Delete a job
			jobs.DELETE("/:id", jobHandler.DeleteJob)
		}
	}

	return r
}
