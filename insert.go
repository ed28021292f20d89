package minorm

import (
	"context"
	"database/sql"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/internal/valuer"
	"github.com/coderi421/minorm/model"
)

type Inserter[T any] struct {
	builder
	core
	sess   Session
	values []colValue // 显式指定的 (列, 值)，保持调用顺序
	beans  []any      // 从 bean 提取普通列
}

func Insert[T any](sess Session) *Inserter[T] {
	c := sess.getCore()
	return &Inserter[T]{
		core:    c,
		sess:    sess,
		builder: newBuilder(c),
	}
}

// Value 显式指定一列的值，col 是数据库里的列名
// 同一列指定多次时后一次生效
func (i *Inserter[T]) Value(col string, val any) *Inserter[T] {
	i.values = append(i.values, colValue{name: col, val: val})
	return i
}

// ValueByBean 从一个 bean 结构体提取 (列, 值)
// 只取和普通列对上的字段，主键和时间戳角色的列永远不会从 bean 拿，
// 显式 Value 指定的列覆盖 bean 提取的
func (i *Inserter[T]) ValueByBean(bean any) *Inserter[T] {
	i.beans = append(i.beans, bean)
	return i
}

func (i *Inserter[T]) Build() (*Query, error) {
	if err := i.initModel(); err != nil {
		return nil, err
	}
	i.reset()

	pairs := make([]colValue, 0, len(i.values)+4)
	seen := make(map[string]int, len(i.values)+4)
	add := func(name string, val any) {
		if idx, ok := seen[name]; ok {
			pairs[idx].val = val
			return
		}
		seen[name] = len(pairs)
		pairs = append(pairs, colValue{name: name, val: val})
	}

	for _, b := range i.beans {
		cvs, err := valuer.BeanColumns(i.model, b)
		if err != nil {
			return nil, err
		}
		for _, cv := range cvs {
			add(cv.Field.ColName, cv.Val)
		}
	}
	for _, v := range i.values {
		fd, ok := i.model.ColumnMap[v.name]
		if !ok {
			return nil, errs.NewErrUnknownColumn(v.name)
		}
		add(fd.ColName, v.val)
	}

	// 没有显式给时间戳列值的时候填当前秒级时间戳
	epoch := i.core.nowFunc().Unix()
	for _, ts := range []*model.Field{i.model.CreatedTS, i.model.UpdatedTS} {
		if ts == nil {
			continue
		}
		if _, ok := seen[ts.ColName]; !ok {
			add(ts.ColName, epoch)
		}
	}

	if len(pairs) == 0 {
		return nil, errs.ErrInsertZeroRow
	}

	i.sb.WriteString("INSERT INTO ")
	i.quote(i.model.TableName)
	i.sb.WriteString(" (")
	for idx, p := range pairs {
		if idx > 0 {
			i.sb.WriteByte(',')
		}
		i.quote(p.name)
	}
	i.sb.WriteString(") VALUES (")
	for idx, p := range pairs {
		if idx > 0 {
			i.sb.WriteByte(',')
		}
		i.bind(p.val)
	}
	i.sb.WriteString(");")

	return &Query{
		SQL:  i.sb.String(),
		Args: i.args,
	}, nil
}

func (i *Inserter[T]) initModel() error {
	if i.model != nil {
		return nil
	}
	var err error
	i.model, err = i.core.r.Get(new(T))
	return err
}

func (i *Inserter[T]) Exec(ctx context.Context) Result {
	if err := i.initModel(); err != nil {
		return Result{err: err}
	}

	res := exec(ctx, i.sess, i.core, &QueryContext{
		Type:    "INSERT",
		Builder: i,
		Model:   i.model,
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

// ExecSelect 执行插入后按自增主键把整行读回来，
// 数据库计算出来的默认值也一起带回
func (i *Inserter[T]) ExecSelect(ctx context.Context) (*T, error) {
	res := i.Exec(ctx)
	if res.Err() != nil {
		return nil, res.Err()
	}
	if i.model.PrimaryKey == nil {
		return nil, errs.ErrNoPrimaryKey
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	tp, found, err := getByPrimaryKey[T](ctx, i.sess, i.core, i.model, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errs.WrapDB(sql.ErrNoRows)
	}
	return tp, nil
}
