package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/school-results-api/internal/handler"
)

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth         *handler.AuthHandler
	Class        *handler.ClassHandler
	Subject      *handler.SubjectHandler
	Student      *handler.StudentHandler
	ClassSubject *handler.ClassSubjectHandler
	Result       *handler.ResultHandler
	Lookup       *handler.LookupHandler
	Health       *handler.HealthHandler
	Metrics      *handler.MetricsHandler
}

// Options controls the mounted surface.
type Options struct {
	APIPrefix     string
	AdminGuard    gin.HandlerFunc
	EnableDocs    bool
	EnableMetrics bool
}

// Register mounts the ops, public and admin routes on r.
func Register(r *gin.Engine, h Handlers, opts Options) {
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	if opts.EnableMetrics {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(opts.APIPrefix)

	// Public
	api.GET("/classes", h.Class.List)
	api.GET("/results/search", h.Lookup.SearchResults)
	api.GET("/results/card", h.Lookup.ResultCard)
	api.GET("/students/search", h.Lookup.SearchStudent)
	api.POST("/admin/login", h.Auth.Login)

	admin := api.Group("")
	admin.Use(opts.AdminGuard)

	admin.GET("/admin/session", h.Auth.Session)
	admin.POST("/admin/logout", h.Auth.Logout)

	admin.GET("/classes/:id", h.Class.Get)
	admin.POST("/classes", h.Class.Create)
	admin.PUT("/classes/:id", h.Class.Update)
	admin.DELETE("/classes/:id", h.Class.Delete)

	admin.GET("/subjects", h.Subject.List)
	admin.GET("/subjects/:id", h.Subject.Get)
	admin.POST("/subjects", h.Subject.Create)
	admin.PUT("/subjects/:id", h.Subject.Update)
	admin.DELETE("/subjects/:id", h.Subject.Delete)

	admin.GET("/students", h.Student.List)
	admin.GET("/students/:id", h.Student.Get)
	admin.POST("/students", h.Student.Create)
	admin.PUT("/students/:id", h.Student.Update)
	admin.DELETE("/students/:id", h.Student.Delete)

	admin.GET("/class-subjects", h.ClassSubject.List)
	admin.POST("/class-subjects", h.ClassSubject.Assign)
	admin.DELETE("/class-subjects/:id", h.ClassSubject.Remove)

	admin.GET("/results", h.Result.List)
	admin.POST("/results/recalculate", h.Result.Recalculate)
	admin.GET("/results/:id", h.Result.Get)
	admin.POST("/results", h.Result.Create)
	admin.PUT("/results/:id", h.Result.Update)
	admin.DELETE("/results/:id", h.Result.Delete)
}
