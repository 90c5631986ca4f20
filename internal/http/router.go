package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/courseforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/courseforge-backend/internal/http/middleware"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	CourseHandler   *httpH.CourseHandler
	ModuleHandler   *httpH.ModuleHandler
	LessonHandler   *httpH.LessonHandler
	ActivityHandler *httpH.ActivityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireOwner())
	}
	{
		// Courses
		if cfg.CourseHandler != nil {
			api.POST("/courses", cfg.CourseHandler.CreateCourse)
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.GET("/courses/:id/standards", cfg.CourseHandler.GetStandards)
			api.PUT("/courses/:id/standards", cfg.CourseHandler.PutStandards)
			api.POST("/courses/:id/validate", cfg.CourseHandler.ValidateCourse)
			api.POST("/courses/:id/modules", cfg.CourseHandler.AddModule)
		}

		// Modules
		if cfg.ModuleHandler != nil {
			api.POST("/modules/:id/lessons", cfg.ModuleHandler.AddLesson)
		}

		// Lessons
		if cfg.LessonHandler != nil {
			api.DELETE("/lessons/:id", cfg.LessonHandler.DeleteLesson)
			api.POST("/lessons/:id/activities", cfg.LessonHandler.AddActivity)
		}

		// Activities
		if cfg.ActivityHandler != nil {
			api.GET("/activities/:id", cfg.ActivityHandler.GetActivity)
			api.PATCH("/activities/:id", cfg.ActivityHandler.Edit)
			api.POST("/activities/:id/generate", cfg.ActivityHandler.Generate)
			api.POST("/activities/:id/regenerate", cfg.ActivityHandler.Regenerate)
			api.POST("/activities/:id/advance", cfg.ActivityHandler.Advance)
			api.POST("/activities/:id/validate", cfg.ActivityHandler.Validate)
		}
	}

	return r
}
