package minorm

import (
	"context"
	"database/sql"

	"github.com/coderi421/minorm/internal/errs"
)

// UpdateBySQL executes a mutating statement and reports the affected row
// count.
func (db *DB) UpdateBySQL(ctx context.Context, query string, args ...any) (int64, error) {
	ctx, cancel := sessionContext(ctx, db)
	defer cancel()

	res, err := db.execContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return n, errs.WrapDB(err)
}

// QueryForLong maps the first column of the first row to an int64.
// 结果集为空时返回 (0, false, nil)，和传了多少参数没有关系
func (db *DB) QueryForLong(ctx context.Context, query string, args ...any) (int64, bool, error) {
	var v int64
	ok, err := db.queryScalar(ctx, &v, query, args)
	return v, ok, err
}

// QueryForString maps the first column of the first row to a string.
func (db *DB) QueryForString(ctx context.Context, query string, args ...any) (string, bool, error) {
	var v string
	ok, err := db.queryScalar(ctx, &v, query, args)
	return v, ok, err
}

func (db *DB) queryScalar(ctx context.Context, dst any, query string, args []any) (bool, error) {
	ctx, cancel := sessionContext(ctx, db)
	defer cancel()

	rows, err := db.queryContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return false, errs.WrapDB(rows.Err())
	}
	if err = rows.Scan(dst); err != nil {
		return false, errs.WrapDB(err)
	}
	return true, nil
}

// ExecuteQuery 执行查询并丢弃结果集，
// 需要结果的用包级的泛型 ExecuteQuery
func (db *DB) ExecuteQuery(ctx context.Context, query string, args ...any) error {
	ctx, cancel := sessionContext(ctx, db)
	defer cancel()

	rows, err := db.queryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	return errs.WrapDB(rows.Err())
}

// ExecuteQuery hands the raw result set to a caller supplied transform,
// for result shapes the row mapper cannot express.
func ExecuteQuery[T any](ctx context.Context, sess Session, query string, args []any, fn func(rows *sql.Rows) (T, error)) (T, error) {
	var zero T

	ctx, cancel := sessionContext(ctx, sess)
	defer cancel()

	rows, err := sess.queryContext(ctx, query, args...)
	if err != nil {
		return zero, err
	}
	defer func() { _ = rows.Close() }()

	res, err := fn(rows)
	if err != nil {
		// 转换函数自己的错误原样抛出去
		return zero, err
	}
	if err = rows.Err(); err != nil {
		return zero, errs.WrapDB(err)
	}
	return res, nil
}
