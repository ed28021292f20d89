package minorm

import (
	"context"
	"database/sql"
)

type Deleter[T any] struct {
	builder
	core
	sess  Session
	conds []cond
}

func Delete[T any](sess Session) *Deleter[T] {
	c := sess.getCore()
	return &Deleter[T]{
		core:    c,
		sess:    sess,
		builder: newBuilder(c),
	}
}

func (d *Deleter[T]) Where(fragment string, args ...any) *Deleter[T] {
	d.conds = append(d.conds, cond{fragment: fragment, args: args})
	return d
}

func (d *Deleter[T]) Build() (*Query, error) {
	if err := d.initModel(); err != nil {
		return nil, err
	}
	d.reset()

	d.sb.WriteString("DELETE FROM ")
	d.quote(d.model.TableName)

	if len(d.conds) > 0 {
		d.sb.WriteString(" WHERE ")
		if err := d.buildConds(d.conds); err != nil {
			return nil, err
		}
	}

	d.sb.WriteByte(';')

	return &Query{
		SQL:  d.sb.String(),
		Args: d.args,
	}, nil
}

func (d *Deleter[T]) initModel() error {
	if d.model != nil {
		return nil
	}
	var err error
	d.model, err = d.core.r.Get(new(T))
	return err
}

func (d *Deleter[T]) Exec(ctx context.Context) Result {
	if err := d.initModel(); err != nil {
		return Result{err: err}
	}

	res := exec(ctx, d.sess, d.core, &QueryContext{
		Type:    "DELETE",
		Builder: d,
		Model:   d.model,
	})

	var sqlRes sql.Result
	if res.Result != nil {
		sqlRes = res.Result.(sql.Result)
	}
	return Result{
		err: res.Err,
		res: sqlRes,
	}
}
