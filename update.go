package minorm

import (
	"context"
	"database/sql"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/internal/valuer"
)

type Updater[T any] struct {
	builder
	core
	sess   Session
	values []colValue
	beans  []any
	conds  []cond
}

func Update[T any](sess Session) *Updater[T] {
	c := sess.getCore()
	return &Updater[T]{
		core:    c,
		sess:    sess,
		builder: newBuilder(c),
	}
}

// Value 显式指定一列的赋值，col 是数据库里的列名
func (u *Updater[T]) Value(col string, val any) *Updater[T] {
	u.values = append(u.values, colValue{name: col, val: val})
	return u
}

// ValueByBean 从 bean 提取赋值，规则和 Inserter 一致：
// 只取普通列，显式 Value 指定的覆盖 bean 提取的
func (u *Updater[T]) ValueByBean(bean any) *Updater[T] {
	u.beans = append(u.beans, bean)
	return u
}

func (u *Updater[T]) Where(fragment string, args ...any) *Updater[T] {
	u.conds = append(u.conds, cond{fragment: fragment, args: args})
	return u
}

func (u *Updater[T]) Build() (*Query, error) {
	if err := u.initModel(); err != nil {
		return nil, err
	}
	u.reset()

	pairs := make([]colValue, 0, len(u.values)+4)
	seen := make(map[string]int, len(u.values)+4)
	add := func(name string, val any) {
		if idx, ok := seen[name]; ok {
			pairs[idx].val = val
			return
		}
		seen[name] = len(pairs)
		pairs = append(pairs, colValue{name: name, val: val})
	}

	for _, b := range u.beans {
		cvs, err := valuer.BeanColumns(u.model, b)
		if err != nil {
			return nil, err
		}
		for _, cv := range cvs {
			add(cv.Field.ColName, cv.Val)
		}
	}
	for _, v := range u.values {
		fd, ok := u.model.ColumnMap[v.name]
		if !ok {
			return nil, errs.NewErrUnknownColumn(v.name)
		}
		add(fd.ColName, v.val)
	}

	// 更新时间戳列每次更新都重写，哪怕之前被清成了 NULL
	if ts := u.model.UpdatedTS; ts != nil {
		if _, ok := seen[ts.ColName]; !ok {
			add(ts.ColName, u.core.nowFunc().Unix())
		}
	}

	if len(pairs) == 0 {
		return nil, errs.ErrNoUpdatedColumns
	}

	u.sb.WriteString("UPDATE ")
	u.quote(u.model.TableName)
	u.sb.WriteString(" SET ")
	for idx, p := range pairs {
		if idx > 0 {
			u.sb.WriteByte(',')
		}
		u.quote(p.name)
		u.sb.WriteByte('=')
		u.bind(p.val)
	}

	if len(u.conds) > 0 {
		u.sb.WriteString(" WHERE ")
		if err := u.buildConds(u.conds); err != nil {
			return nil, err
		}
	}

	u.sb.WriteByte(';')

	return &Query{
		SQL:  u.sb.String(),
		Args: u.args,
	}, nil
}

func (u *Updater[T]) initModel() error {
	if u.model != nil {
		return nil
	}
	var err error
	u.model, err = u.core.r.Get(new(T))
	return err
}

func (u *Updater[T]) Exec(ctx context.Context) Result {
	if err := u.initModel(); err != nil {
		return Result{err: err}
	}

	res := exec(ctx, u.sess, u.core, &QueryContext{
		Type:    "UPDATE",
		Builder: u,
		Model:   u.model,
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

// UpdateByBean 按 row 的主键更新，赋值从 bean 提取
func UpdateByBean[T any](ctx context.Context, sess Session, row *T, bean any) Result {
	u := Update[T](sess)
	if err := u.initModel(); err != nil {
		return Result{err: err}
	}
	if u.model.PrimaryKey == nil {
		return Result{err: errs.ErrNoPrimaryKey}
	}

	pkVal, err := u.core.valCreator(row, u.model).Field(u.model.PrimaryKey.GoName)
	if err != nil {
		return Result{err: err}
	}

	return u.ValueByBean(bean).
		Where(quoteIdent(u.core.dialect, u.model.PrimaryKey.ColName)+"=?", pkVal).
		Exec(ctx)
}

// Refetch 按 row 的主键把整行重新读回来
func Refetch[T any](ctx context.Context, sess Session, row *T) (*T, bool, error) {
	c := sess.getCore()
	meta, err := c.r.Get(row)
	if err != nil {
		return nil, false, err
	}
	if meta.PrimaryKey == nil {
		return nil, false, errs.ErrNoPrimaryKey
	}

	pkVal, err := c.valCreator(row, meta).Field(meta.PrimaryKey.GoName)
	if err != nil {
		return nil, false, err
	}
	return getByPrimaryKey[T](ctx, sess, c, meta, pkVal)
}
