package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

// DBExecutor общий интерфейс для *sql.DB, *sql.Tx и обёрток над ними
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor транзакция
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// Observer получатель длительности обращений к БД
type Observer interface {
	ObserveDBCall(operation string, duration time.Duration, err error)
}

// PoolObserver получатель статистики connection pool
type PoolObserver interface {
	ObservePool(stats sql.DBStats)
}

// DB обёртка над *sql.DB, снимающая метрики с каждого запроса.
// С nil observer работает как обычный *sql.DB
type DB struct {
	db       *sql.DB
	observer Observer
}

// Wrap оборачивает соединение
func Wrap(db *sql.DB, observer Observer) *DB {
	return &DB{db: db, observer: observer}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула
// с интервалом 15 секунд до закрытия stopCh
func WrapWithDefault(db *sql.DB, observer Observer, pool PoolObserver, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, observer)
	if pool != nil {
		go collectPoolStats(db, pool, 15*time.Second, stopCh)
	}
	return wrapped
}

// ExecContext выполняет запрос без результата
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe("exec", start, err)
	return res, err
}

// QueryContext выполняет запрос, возвращающий строки
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe("query", start, err)
	return rows, err
}

// QueryRowContext выполняет запрос, возвращающий одну строку
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe("query_row", start, row.Err())
	return row
}

// BeginTx открывает транзакцию
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.observe("begin", start, err)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, observer: d.observer}, nil
}

func (d *DB) observe(operation string, start time.Time, err error) {
	if d.observer != nil {
		d.observer.ObserveDBCall(operation, time.Since(start), err)
	}
}

// Tx транзакция с метриками
type Tx struct {
	tx       *sql.Tx
	observer Observer
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.observe("tx_exec", start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.observe("tx_query", start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.observe("tx_query_row", start, row.Err())
	return row
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.observe("commit", start, err)
	return err
}

func (t *Tx) Rollback() error {
	start := time.Now()
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return err
	}
	t.observe("rollback", start, err)
	return err
}

func (t *Tx) observe(operation string, start time.Time, err error) {
	if t.observer != nil {
		t.observer.ObserveDBCall(operation, time.Since(start), err)
	}
}

func collectPoolStats(db *sql.DB, pool PoolObserver, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pool.ObservePool(db.Stats())
	for {
		select {
		case <-ticker.C:
			pool.ObservePool(db.Stats())
		case <-stopCh:
			return
		}
	}
}
