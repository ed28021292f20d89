package minorm

import (
	"context"
	"strings"

	"github.com/coderi421/minorm/internal/errs"
)

// Paginated 一页数据加上"还有没有下一页"的标志
type Paginated[T any] struct {
	Rows           []*T
	EntriesPerPage int
	HasNextPage    bool
}

// Pager 按 perPage 分页检索：多取一行判断有没有下一页，返回前丢弃。
// 排序键不唯一时页边界不稳定，调用方需要在 OrderBy 里带上一个
// 决胜列（通常是主键）
type Pager[T any] struct {
	sel     *Selector[T]
	raw     *RawQuerier[T]
	perPage int
	offset  int
}

func SearchWithPager[T any](sess Session, perPage int) *Pager[T] {
	return &Pager[T]{
		sel:     Search[T](sess),
		perPage: perPage,
	}
}

// SearchBySQLWithPager 原生 SQL 版本，LIMIT/OFFSET 追加到给定 SQL 之后
func SearchBySQLWithPager[T any](sess Session, query string, args []any, perPage int) *Pager[T] {
	return &Pager[T]{
		raw:     SearchBySQL[T](sess, query, args...),
		perPage: perPage,
	}
}

// Where 只对 builder 模式生效，原生 SQL 模式下忽略
func (p *Pager[T]) Where(fragment string, args ...any) *Pager[T] {
	if p.sel != nil {
		p.sel.Where(fragment, args...)
	}
	return p
}

func (p *Pager[T]) OrderBy(fragment string) *Pager[T] {
	if p.sel != nil {
		p.sel.OrderBy(fragment)
	}
	return p
}

func (p *Pager[T]) Offset(n int) *Pager[T] {
	p.offset = n
	return p
}

func (p *Pager[T]) Execute(ctx context.Context) (*Paginated[T], error) {
	// 非法分页大小在执行前就拒绝
	if p.perPage < 1 {
		return nil, errs.NewErrInvalidPageSize(p.perPage)
	}

	var (
		rows []*T
		err  error
	)
	if p.raw != nil {
		rows, err = p.executeRaw(ctx)
	} else {
		rows, err = p.sel.Limit(p.perPage + 1).Offset(p.offset).GetMulti(ctx)
	}
	if err != nil {
		return nil, err
	}

	res := &Paginated[T]{EntriesPerPage: p.perPage}
	if len(rows) > p.perPage {
		// 第 perPage+1 行只用来判断有没有下一页
		rows = rows[:p.perPage:p.perPage]
		res.HasNextPage = true
	}
	res.Rows = rows
	return res, nil
}

func (p *Pager[T]) executeRaw(ctx context.Context) ([]*T, error) {
	var sb strings.Builder
	sb.WriteString(p.raw.sql)

	args := make([]any, len(p.raw.args), len(p.raw.args)+2)
	copy(args, p.raw.args)

	d := p.raw.dialect
	sb.WriteString(" LIMIT ")
	args = append(args, p.perPage+1)
	d.placeholder(&sb, len(args))
	if p.offset > 0 {
		sb.WriteString(" OFFSET ")
		args = append(args, p.offset)
		d.placeholder(&sb, len(args))
	}

	return SearchBySQL[T](p.raw.sess, sb.String(), args...).GetMulti(ctx)
}
