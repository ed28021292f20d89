package minorm

import (
	"context"

	"github.com/coderi421/minorm/internal/errs"
)

// Counter 渲染 COUNT(*) 投影，显式的列与排序设置都会被忽略
type Counter[T any] struct {
	builder
	core
	sess  Session
	conds []cond
}

func Count[T any](sess Session) *Counter[T] {
	c := sess.getCore()
	return &Counter[T]{
		core:    c,
		sess:    sess,
		builder: newBuilder(c),
	}
}

func (c *Counter[T]) Where(fragment string, args ...any) *Counter[T] {
	c.conds = append(c.conds, cond{fragment: fragment, args: args})
	return c
}

func (c *Counter[T]) Build() (*Query, error) {
	if err := c.initModel(); err != nil {
		return nil, err
	}
	c.reset()

	c.sb.WriteString("SELECT COUNT(*) FROM ")
	c.quote(c.model.TableName)

	if len(c.conds) > 0 {
		c.sb.WriteString(" WHERE ")
		if err := c.buildConds(c.conds); err != nil {
			return nil, err
		}
	}

	c.sb.WriteByte(';')

	return &Query{
		SQL:  c.sb.String(),
		Args: c.args,
	}, nil
}

func (c *Counter[T]) initModel() error {
	if c.model != nil {
		return nil
	}
	var err error
	c.model, err = c.core.r.Get(new(T))
	return err
}

func (c *Counter[T]) Exec(ctx context.Context) (int64, error) {
	if err := c.initModel(); err != nil {
		return 0, err
	}

	res := wrap(c.mdls, c.execHandler)(ctx, &QueryContext{
		Type:    "SELECT",
		Builder: c,
		Model:   c.model,
	})
	if res.Err != nil {
		return 0, res.Err
	}
	return res.Result.(int64), nil
}

func (c *Counter[T]) execHandler(ctx context.Context, qc *QueryContext) *QueryResult {
	q, err := qc.Builder.Build()
	if err != nil {
		return &QueryResult{Err: err}
	}

	ctx, cancel := sessionContext(ctx, c.sess)
	defer cancel()

	rows, err := c.sess.queryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return &QueryResult{Err: err}
	}
	defer func() { _ = rows.Close() }()

	var cnt int64
	if rows.Next() {
		if err = rows.Scan(&cnt); err != nil {
			return &QueryResult{Err: errs.WrapDB(err)}
		}
	}
	if err = rows.Err(); err != nil {
		return &QueryResult{Err: errs.WrapDB(err)}
	}
	return &QueryResult{Result: cnt}
}
