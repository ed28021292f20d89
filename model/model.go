package model

import (
	"reflect"

	"github.com/coderi421/minorm/internal/errs"
)

// Option is a function type that modifies a Model.
type Option func(model *Model) error

// Role 字段在表里扮演的角色，互斥
type Role uint8

const (
	// RoleColumn 普通列
	RoleColumn Role = iota
	// RolePrimaryKey 单列主键
	RolePrimaryKey
	// RoleCreatedTS 写入时填充的秒级时间戳，之后不再改动
	RoleCreatedTS
	// RoleUpdatedTS 每次更新都会重写的秒级时间戳
	RoleUpdatedTS
)

// Model 结构体映射 db 后的结构
// 同一个类型解析一次之后整个进程周期内复用，所以这里的字段都是只读的
type Model struct {
	// TableName 结构体对应的表名
	TableName string
	// Fields 声明顺序排列的全部列
	Fields []*Field
	// FieldMap 结构体属性名为 key，例如 ItemId
	FieldMap map[string]*Field
	// ColumnMap DB column name 为 key，例如 item_id
	ColumnMap map[string]*Field

	// PrimaryKey CreatedTS UpdatedTS 没有声明对应角色时为 nil
	PrimaryKey *Field
	CreatedTS  *Field
	UpdatedTS  *Field

	// ExtrasIndex 内嵌 Extras 字段的下标，没有内嵌时为 -1
	ExtrasIndex int
}

// Field 字段相关的属性
type Field struct {
	// ColName 数据库中的字段名
	ColName string
	// GoName go struct 中的名字
	GoName string
	// Role 列角色
	Role Role
	// Type go 中的数据类型，转换成 reflect.Value 的时候，知道是什么类型，不然没法转
	Type reflect.Type
	// Index 结构体内的字段下标
	Index int
}

// 我们支持的全部标签上的 key 都放在这里
// 方便用户查找，和我们后期维护
const (
	tagKeyColumn = "column"
	tagKeyRole   = "role"
	tagORMName   = "orm"

	roleValuePrimaryKey = "primary_key"
	roleValueCreatedTS  = "created_timestamp"
	roleValueUpdatedTS  = "updated_timestamp"
)

// TableName 用户实现这个接口来返回自定义的表名
type TableName interface {
	TableName() string
}

// WithTableName is an Option function that sets the table name for a Model.
func WithTableName(tableName string) Option {
	return func(model *Model) error {
		model.TableName = tableName
		return nil
	}
}

// WithColumnName returns an Option that sets the column name for a specific
// field in a model.
func WithColumnName(field, columnName string) Option {
	return func(model *Model) error {
		fd, ok := model.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}

		delete(model.ColumnMap, fd.ColName)
		fd.ColName = columnName
		model.ColumnMap[columnName] = fd
		return nil
	}
}
