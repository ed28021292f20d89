package minorm

import (
	"context"
)

// RawQuerier 是 builder 表达不了的查询（join、聚合、计算列）的逃生通道：
// 直接给 SQL 文和按位置的参数，结果仍然走同一套 Row Mapper，
// 所以没有匹配字段的列照样进 Extras
type RawQuerier[T any] struct {
	core
	sess Session
	sql  string
	args []any
}

func newRawQuerier[T any](sess Session, query string, args []any) *RawQuerier[T] {
	return &RawQuerier[T]{
		core: sess.getCore(),
		sess: sess,
		sql:  query,
		args: args,
	}
}

// SingleBySQL 单行版本，没有命中时返回 (nil, false, nil)
func SingleBySQL[T any](sess Session, query string, args ...any) *RawQuerier[T] {
	return newRawQuerier[T](sess, query, args)
}

// SearchBySQL 多行版本
func SearchBySQL[T any](sess Session, query string, args ...any) *RawQuerier[T] {
	return newRawQuerier[T](sess, query, args)
}

func (r *RawQuerier[T]) Build() (*Query, error) {
	return &Query{
		SQL:  r.sql,
		Args: r.args,
	}, nil
}

func (r *RawQuerier[T]) Get(ctx context.Context) (*T, bool, error) {
	meta, err := r.r.Get(new(T))
	if err != nil {
		return nil, false, err
	}

	res := get[T](ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
		Model:   meta,
	})
	if res.Err != nil {
		return nil, false, res.Err
	}
	if res.Result == nil {
		return nil, false, nil
	}
	return res.Result.(*T), true, nil
}

func (r *RawQuerier[T]) GetMulti(ctx context.Context) ([]*T, error) {
	meta, err := r.r.Get(new(T))
	if err != nil {
		return nil, err
	}

	res := getMulti[T](ctx, r.sess, r.core, &QueryContext{
		Type:    "RAW",
		Builder: r,
		Model:   meta,
	})
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result.([]*T), nil
}
