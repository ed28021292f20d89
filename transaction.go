package minorm

import (
	"context"
	"database/sql"
	"time"

	"github.com/coderi421/minorm/internal/errs"
)

var _ Session = &Tx{}
var _ Session = &DB{}

// Session 代表一个抽象的概念，即会话
// DB 和 Tx 都实现它，所以每个 builder 既能跑在连接池上也能跑在事务里
type Session interface {
	getCore() core
	timeout() time.Duration
	queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	execContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Tx struct {
	tx *sql.Tx
	db *DB
}

func (t *Tx) getCore() core {
	return t.db.core
}

func (t *Tx) timeout() time.Duration {
	return t.db.queryTimeout
}

func (t *Tx) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.WrapDB(err)
	}
	return rows, nil
}

func (t *Tx) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, errs.WrapDB(err)
	}
	return res, nil
}

func (t *Tx) Commit() error {
	return errs.WrapDB(t.tx.Commit())
}

func (t *Tx) Rollback() error {
	return errs.WrapDB(t.tx.Rollback())
}

func (t *Tx) RollbackIfNotCommit() error {
	err := t.tx.Rollback()
	if err != sql.ErrTxDone {
		return errs.WrapDB(err)
	}
	return nil
}
