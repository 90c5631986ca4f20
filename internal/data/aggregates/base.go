package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Locker   Locker
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

// withLock runs fn while holding key. The lock is released on every path.
func withLock(ctx context.Context, deps BaseDeps, op, key string, fn func() error) error {
	release, err := deps.Locker.Acquire(ctx, key)
	if err != nil {
		deps.Hooks.IncConflict(op)
		return domainagg.NewError(domainagg.CodeConflict, op, "course is busy, try again", err)
	}
	defer release()
	return fn()
}

func aggregateErrorStatus(err error) string {
	if code := strings.TrimSpace(string(domainagg.CodeOf(err))); code != "" {
		return code
	}
	return "failure"
}

func courseLockKey(courseID string) string {
	return "course:" + courseID
}
