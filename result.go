package minorm

import (
	"database/sql"

	"github.com/coderi421/minorm/internal/errs"
)

// Result 对 database/sql 的 Result 做一层拦截，
// 构建阶段的错误也从这里暴露出去
type Result struct {
	err error
	res sql.Result
}

func (r Result) LastInsertId() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	id, err := r.res.LastInsertId()
	return id, errs.WrapDB(err)
}

func (r Result) RowsAffected() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.res.RowsAffected()
	return n, errs.WrapDB(err)
}

func (r Result) Err() error {
	return r.err
}
