package minorm

import (
	"context"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/model"
)

// Selector represents a query that allows building SQL SELECT statements.
type Selector[T any] struct {
	builder
	core
	sess Session

	conds   []cond
	orderBy string
	limit   int
	offset  int
}

func newSelector[T any](sess Session) *Selector[T] {
	c := sess.getCore()
	return &Selector[T]{
		core:    c,
		sess:    sess,
		builder: newBuilder(c),
	}
}

// Single 构造单行查询。Get 隐含 LIMIT 1，
// 没有命中时返回 (nil, false, nil)，这不是错误
func Single[T any](sess Session) *Selector[T] {
	return newSelector[T](sess)
}

// Search 构造多行查询
func Search[T any](sess Session) *Selector[T] {
	return newSelector[T](sess)
}

// Where 追加一组查询条件，多组之间用 AND 连接
// 片段里的 ? 和 args 按位置对应，例如 Where("name LIKE ?", "m%")
func (s *Selector[T]) Where(fragment string, args ...any) *Selector[T] {
	s.conds = append(s.conds, cond{fragment: fragment, args: args})
	return s
}

// OrderBy 设置排序片段，例如 OrderBy("id DESC")
func (s *Selector[T]) OrderBy(fragment string) *Selector[T] {
	s.orderBy = fragment
	return s
}

func (s *Selector[T]) Limit(n int) *Selector[T] {
	s.limit = n
	return s
}

func (s *Selector[T]) Offset(n int) *Selector[T] {
	s.offset = n
	return s
}

func (s *Selector[T]) Build() (*Query, error) {
	if err := s.initModel(); err != nil {
		return nil, err
	}
	if s.offset > 0 && s.limit <= 0 {
		return nil, errs.ErrOffsetWithoutLimit
	}
	s.reset()

	s.sb.WriteString("SELECT * FROM ")
	s.quote(s.model.TableName)

	if len(s.conds) > 0 {
		// 类似这种可有可无的部分，都要在前面加一个空格
		s.sb.WriteString(" WHERE ")
		if err := s.buildConds(s.conds); err != nil {
			return nil, err
		}
	}

	if s.orderBy != "" {
		s.sb.WriteString(" ORDER BY ")
		s.sb.WriteString(s.orderBy)
	}

	if s.limit > 0 {
		s.sb.WriteString(" LIMIT ")
		s.bind(s.limit)
	}

	if s.offset > 0 {
		s.sb.WriteString(" OFFSET ")
		s.bind(s.offset)
	}

	s.sb.WriteByte(';')

	return &Query{
		SQL:  s.sb.String(),
		Args: s.args,
	}, nil
}

func (s *Selector[T]) initModel() error {
	if s.model != nil {
		return nil
	}
	var err error
	s.model, err = s.core.r.Get(new(T))
	return err
}

// Get 执行单行查询
func (s *Selector[T]) Get(ctx context.Context) (*T, bool, error) {
	if s.limit <= 0 {
		s.limit = 1
	}
	if err := s.initModel(); err != nil {
		return nil, false, err
	}

	res := get[T](ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   s.model,
	})
	if res.Err != nil {
		return nil, false, res.Err
	}
	if res.Result == nil {
		return nil, false, nil
	}
	return res.Result.(*T), true, nil
}

// GetMulti 执行多行查询，按渲染出来的谓词、排序和分页返回全部命中行
func (s *Selector[T]) GetMulti(ctx context.Context) ([]*T, error) {
	if err := s.initModel(); err != nil {
		return nil, err
	}

	res := getMulti[T](ctx, s.sess, s.core, &QueryContext{
		Type:    "SELECT",
		Builder: s,
		Model:   s.model,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.([]*T), nil
}

// getByPrimaryKey 按主键读一行，ExecSelect 和 Refetch 共用
func getByPrimaryKey[T any](ctx context.Context, sess Session, c core, meta *model.Model, pk any) (*T, bool, error) {
	s := Single[T](sess)
	s.conds = append(s.conds, cond{
		fragment: quoteIdent(c.dialect, meta.PrimaryKey.ColName) + "=?",
		args:     []any{pk},
	})
	return s.Get(ctx)
}
