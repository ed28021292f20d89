package minorm

import (
	"context"
	"database/sql"
	"time"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/internal/valuer"
	"github.com/coderi421/minorm/model"
)

type DBOption func(*DB)

// DB 是执行的入口，持有一个 *sql.DB
// 一个 DB 实例按单线程使用，唯一的例外是元数据缓存，
// 它能承受多个 goroutine 的首次并发解析
type DB struct {
	core
	db *sql.DB

	// queryTimeout 应用到之后的每次执行上，0 表示不限制
	queryTimeout time.Duration
}

// Open creates a DB over the named driver and DSN.
func Open(driver string, dsn string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errs.WrapDB(err)
	}
	return OpenDB(db, opts...)
}

// OpenDB wraps an existing *sql.DB. Useful with sqlmock in tests.
func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	res := &DB{
		core: core{
			dialect:    MySQL,
			r:          model.NewRegistry(),
			valCreator: valuer.NewReflectValue,
			nowFunc:    time.Now,
		},
		db: db,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

// MustOpen creates a DB with the provided options and panics on failure.
func MustOpen(driver string, dsn string, opts ...DBOption) *DB {
	db, err := Open(driver, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

func DBWithDialect(d Dialect) DBOption {
	return func(db *DB) {
		db.dialect = d
	}
}

func DBWithRegistry(r model.Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

// DBWithNowFunc 替换时间戳列使用的时钟
func DBWithNowFunc(fn func() time.Time) DBOption {
	return func(db *DB) {
		db.nowFunc = fn
	}
}

// SetQueryTimeout 设置之后每次执行的超时，0 解除限制
// 超时会以 context 截止时间的形式挂到语句上，
// 驱动报出来的超时错误可以顺着 cause 链找到
func (db *DB) SetQueryTimeout(d time.Duration) {
	db.queryTimeout = d
}

// BeginTx starts a transaction bound to this DB's configuration.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, errs.WrapDB(err)
	}
	return &Tx{tx: tx, db: db}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) getCore() core {
	return db.core
}

func (db *DB) timeout() time.Duration {
	return db.queryTimeout
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.WrapDB(err)
	}
	return rows, nil
}

func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := db.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errs.WrapDB(err)
	}
	return res, nil
}

// sessionContext 应用配置的语句超时
func sessionContext(ctx context.Context, sess Session) (context.Context, context.CancelFunc) {
	d := sess.timeout()
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
