package aggregates

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/courseforge-backend/internal/domain/aggregates"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/pkg/httpx"
)

// TxRunner provides a shared transaction boundary primitive for aggregate writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db       *gorm.DB
	attempts int
	backoff  time.Duration
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
// Serialization failures and busy databases are retried a few times; fn must
// therefore be safe to re-run from scratch.
func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db, attempts: 3, backoff: 25 * time.Millisecond}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.Context{Ctx: ctx, Tx: tx})
		})
		if err == nil || !domainagg.IsCode(MapError("aggregate.tx", err), domainagg.CodeRetryable) || ctx.Err() != nil {
			return err
		}
		if sleepErr := httpx.Sleep(ctx, httpx.JitterSleep(httpx.Backoff(attempt, r.backoff, time.Second))); sleepErr != nil {
			return err
		}
	}
	return err
}
