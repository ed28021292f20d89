package minorm

import (
	"github.com/coderi421/minorm/internal/errs"
)

// 将内部的错误分类暴露出去。所有失败都是同一个错误类型，
// 驱动的原始错误顺着 errors.Unwrap 的 cause 链可以拿到，
// 例如判断一次失败是不是语句超时。

// ErrKind 错误分类：数据库 / 映射 / 配置
type ErrKind = errs.Kind

const (
	KindDatabase = errs.KindDatabase
	KindMapping  = errs.KindMapping
	KindConfig   = errs.KindConfig
)

// KindOf reports which kind of failure err is, or errs.KindUnknown for
// errors this module did not produce.
func KindOf(err error) ErrKind {
	return errs.KindOf(err)
}
