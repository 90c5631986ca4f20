package app

import (
	"fmt"

	"gorm.io/gorm"

	dataagg "github.com/yungbote/courseforge-backend/internal/data/aggregates"
	"github.com/yungbote/courseforge-backend/internal/data/repos"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/buildstate"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/standards"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
	"github.com/yungbote/courseforge-backend/internal/services"
)

type Services struct {
	Course   services.CourseService
	Activity services.ActivityService
	Sweeper  *buildstate.Sweeper
}

func wireRepos(db *gorm.DB, log *logger.Logger) repos.Set {
	log.Info("Wiring repos...")
	return repos.NewSet(db, log)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, set repos.Set, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	profile, err := standards.Load(cfg.StandardsProfilePath)
	if err != nil {
		return Services{}, fmt.Errorf("load standards profile: %w", err)
	}
	log.Info("Standards profile loaded", "profile", profile.Name, "version", profile.Version)

	deps := dataagg.BaseDeps{
		DB:     db,
		Log:    log,
		Locker: clients.Locker,
	}
	if metrics != nil {
		deps.Hooks = dataagg.NewObservabilityHooks(metrics)
	}
	store := dataagg.NewCourseStore(deps, set)

	caller := generation.NewCaller(log, clients.OpenAI, clients.Limiter, cfg.Retry, generation.WithMetrics(metrics))
	registry := generation.NewRegistry(generation.Deps{
		Caller:  caller,
		Sources: generation.NewReadabilityFetcher(log, cfg.SourceFetchTimeout),
		Log:     log,
	})
	machine := buildstate.NewMachine(log, store, registry, profile, buildstate.WithMetrics(metrics))

	return Services{
		Course:   services.NewCourseService(log, store, set, profile),
		Activity: services.NewActivityService(log, machine),
		Sweeper:  buildstate.NewSweeper(log, metrics, store, cfg.Sweeper),
	}, nil
}
