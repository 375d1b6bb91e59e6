package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/repository"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxOptions parámetros del runner.
type TxOptions struct {
	MaxAttempts int // intentos totales ante 40001/40P01 (mínimo 1)
	Metrics     ports.OperationRecorder
	Log         *logger.Logger
}

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE de PostgreSQL,
// repitiéndolos ante fallos de serialización o deadlock.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions) *TxRunner {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.Metrics == nil {
		opts.Metrics = ports.NopRecorder{}
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return &TxRunner{pool: pool, opts: opts}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	onRetry := func(attempt int, err error) {
		r.opts.Metrics.IncTxRetry()
		r.opts.Log.Debug().Err(err).Int("attempt", attempt).Msg("reintentando transacción")
	}
	return withRetry(ctx, r.opts.MaxAttempts, onRetry, func() error {
		return r.runOnce(ctx, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, ReposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ReposFor construye todos los repositorios sobre el mismo Querier.
func ReposFor(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Items:     NewItemRepository(q),
		Uoms:      NewUomRepository(q),
		Locations: NewLocationRepository(q),
		Balances:  NewBalanceRepository(q),
		Events:    NewInventoryEventRepository(q),
		Orders:    NewSalesOrderRepository(q),
		PickTasks: NewPickTaskRepository(q),
	}
}
