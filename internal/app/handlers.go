package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/courseforge-backend/internal/http"
	httpH "github.com/yungbote/courseforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/courseforge-backend/internal/http/middleware"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Course   *httpH.CourseHandler
	Module   *httpH.ModuleHandler
	Lesson   *httpH.LessonHandler
	Activity *httpH.ActivityHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		Course:   httpH.NewCourseHandler(log, services.Course),
		Module:   httpH.NewModuleHandler(services.Course),
		Lesson:   httpH.NewLessonHandler(services.Course),
		Activity: httpH.NewActivityHandler(log, services.Activity),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; every /api request will be rejected")
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     cfg.Otel.ServiceName,
		TracingEnabled:  cfg.Otel.Enabled,
		CORSOrigins:     cfg.CORSOrigins,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		CourseHandler:   handlers.Course,
		ModuleHandler:   handlers.Module,
		LessonHandler:   handlers.Lesson,
		ActivityHandler: handlers.Activity,
	})
}
