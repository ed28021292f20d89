package minorm

import (
	"context"
	"time"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/internal/valuer"
	"github.com/coderi421/minorm/model"
)

type core struct {
	dialect    Dialect
	r          model.Registry // 存储数据库表和 struct 映射关系的实例
	valCreator valuer.Creator // 与 DB 交互映射的实现
	mdls       []Middleware
	nowFunc    func() time.Time // 时间戳列的时钟，测试可替换
}

// wrap 将中间件逆序套在根 Handler 外面
func wrap(mdls []Middleware, root Handler) Handler {
	for i := len(mdls) - 1; i >= 0; i-- {
		root = mdls[i](root)
	}
	return root
}

// get 执行单行查询。没有命中时 Result 为 nil，这不是错误。
func get[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	root := func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getHandler[T](ctx, sess, c, qc)
	}
	return wrap(c.mdls, root)(ctx, qc)
}

func getHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}

	ctx, cancel := sessionContext(ctx, sess)
	defer cancel()

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return &QueryResult{Err: errs.WrapDB(err)}
		}
		return &QueryResult{}
	}

	tp := new(T)
	val := c.valCreator(tp, qc.Model)
	if err = val.SetColumns(rows); err != nil {
		return &QueryResult{Err: err}
	}
	return &QueryResult{Result: tp}
}

// getMulti 执行多行查询，Result 是 []*T
func getMulti[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	root := func(ctx context.Context, qc *QueryContext) *QueryResult {
		return getMultiHandler[T](ctx, sess, c, qc)
	}
	return wrap(c.mdls, root)(ctx, qc)
}

func getMultiHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}

	ctx, cancel := sessionContext(ctx, sess)
	defer cancel()

	rows, err := sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer func() { _ = rows.Close() }()

	var tps []*T
	for rows.Next() {
		tp := new(T)
		val := c.valCreator(tp, qc.Model)
		if err = val.SetColumns(rows); err != nil {
			return &QueryResult{Err: err}
		}
		tps = append(tps, tp)
	}
	if err = rows.Err(); err != nil {
		return &QueryResult{Err: errs.WrapDB(err)}
	}
	return &QueryResult{Result: tps}
}

// exec 执行变更语句，Result 是 sql.Result
func exec(ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	root := func(ctx context.Context, qc *QueryContext) *QueryResult {
		q, err := qc.Builder.Build()
		if err != nil {
			return &QueryResult{Err: err}
		}
		ctx, cancel := sessionContext(ctx, sess)
		defer cancel()
		res, err := sess.execContext(ctx, q.SQL, q.Args...)
		return &QueryResult{Result: res, Err: err}
	}
	return wrap(c.mdls, root)(ctx, qc)
}
