package valuer

import (
	"database/sql"

	"github.com/coderi421/minorm/model"
)

// Value 是对结构体实例的内部抽象
type Value interface {
	// Field 返回字段对应的值，name 是结构体属性名
	Field(name string) (any, error)
	// SetColumns 将当前结果行的数据设置到对应的 struct 上
	SetColumns(rows *sql.Rows) error
}

// Creator 本质上也是 factory 模式的一种
type Creator func(val any, meta *model.Model) Value

// ColumnValue 是一对 (列, 值)，由 bean 提取出来
type ColumnValue struct {
	Field *model.Field
	Val   any
}
