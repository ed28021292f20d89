package minorm

import (
	"strings"

	"github.com/coderi421/minorm/internal/errs"
	"github.com/coderi421/minorm/model"
)

type builder struct {
	sb      strings.Builder // sb is used to build the SQL query string.
	args    []any           // args holds the bind values for the query.
	model   *model.Model    // model is the metadata of the row type being built for.
	dialect Dialect
	quoter  byte
}

func newBuilder(c core) builder {
	return builder{
		dialect: c.dialect,
		quoter:  c.dialect.quoter(),
	}
}

// reset 清空上一次 Build 的产物，中间件和执行各自调用 Build 也能拿到
// 一样的结果
func (b *builder) reset() {
	b.sb.Reset()
	b.args = nil
}

func (b *builder) quote(name string) {
	b.sb.WriteByte(b.quoter)
	b.sb.WriteString(name)
	b.sb.WriteByte(b.quoter)
}

// bind appends one bind value and writes its positional marker, so the
// marker count in the rendered text always equals len(args).
func (b *builder) bind(val any) {
	if b.args == nil {
		b.args = make([]any, 0, 8)
	}
	b.args = append(b.args, val)
	b.dialect.placeholder(&b.sb, len(b.args))
}

// cond 一组 WHERE 片段和它的参数
type cond struct {
	fragment string
	args     []any
}

// buildConds 将多个片段用 AND 连接，每个片段都套上括号
func (b *builder) buildConds(conds []cond) error {
	for i, c := range conds {
		if i > 0 {
			b.sb.WriteString(" AND ")
		}
		b.sb.WriteByte('(')
		if err := b.buildFragment(c.fragment, c.args); err != nil {
			return err
		}
		b.sb.WriteByte(')')
	}
	return nil
}

// buildFragment 把片段里的 ? 逐个换成方言占位符并追加参数
// 个数对不上在这里就报配置错误，不用等到驱动才发现
func (b *builder) buildFragment(fragment string, args []any) error {
	markers := strings.Count(fragment, "?")
	if markers != len(args) {
		return errs.NewErrArgCountMismatch(fragment, markers, len(args))
	}
	next := 0
	for i := 0; i < len(fragment); i++ {
		ch := fragment[i]
		if ch != '?' {
			b.sb.WriteByte(ch)
			continue
		}
		b.bind(args[next])
		next++
	}
	return nil
}

// colValue 一对显式指定的 (列, 值)
type colValue struct {
	name string
	val  any
}

func quoteIdent(d Dialect, name string) string {
	q := string(d.quoter())
	return q + name + q
}
