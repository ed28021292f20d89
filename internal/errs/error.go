package errs

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the module can produce.
type Kind uint8

const (
	// KindUnknown 不是本模块产生的错误
	KindUnknown Kind = iota
	// KindDatabase 驱动上报的错误，原始错误保留在 cause 里
	KindDatabase
	// KindMapping 结果列无法转换到声明字段
	KindMapping
	// KindConfig 元数据或者参数配置错误
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindDatabase:
		return "database"
	case KindMapping:
		return "mapping"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the single failure type of the module. The original driver
// error, if any, is reachable through the cause chain via errors.Unwrap.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf reports the kind of err, or KindUnknown if err was not produced
// by this module.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

var (
	// ErrPointerOnly 只支持一级指针作为输入
	// 例如 *User 可以，但是 **User 和 User 都不可以
	ErrPointerOnly = &Error{kind: KindConfig, msg: "minorm: 只支持指向结构体的一级指针"}

	// ErrInsertZeroRow INSERT 语句没有任何列值
	ErrInsertZeroRow = &Error{kind: KindConfig, msg: "minorm: 插入 0 行"}

	// ErrNoUpdatedColumns UPDATE 语句没有任何赋值
	ErrNoUpdatedColumns = &Error{kind: KindConfig, msg: "minorm: 未指定更新的列"}

	// ErrMultiplePrimaryKeys 一个 Row Type 最多声明一个主键
	ErrMultiplePrimaryKeys = &Error{kind: KindConfig, msg: "minorm: 声明了多个 primary_key 字段"}

	// ErrNoPrimaryKey 操作需要主键但是 Row Type 没有声明
	ErrNoPrimaryKey = &Error{kind: KindConfig, msg: "minorm: 未声明 primary_key 字段"}

	// ErrEmptyConn 连接配置缺少 driver 或者 dsn
	ErrEmptyConn = &Error{kind: KindConfig, msg: "minorm: 连接配置缺少 driver 或 dsn"}

	// ErrOffsetWithoutLimit MySQL 和 SQLite 都不接受只有 OFFSET 的语句
	ErrOffsetWithoutLimit = &Error{kind: KindConfig, msg: "minorm: 指定了 OFFSET 但没有 LIMIT"}
)

// WrapConfig wraps a configuration loading failure.
func WrapConfig(cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: KindConfig, msg: "minorm: 配置错误", cause: cause}
}

// WrapDB wraps any driver reported failure. A nil cause returns nil so
// call sites can wrap unconditionally.
func WrapDB(cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: KindDatabase, msg: "minorm: 数据库错误", cause: cause}
}

func NewErrInvalidTagContent(tag string) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf("minorm: 错误的标签设置: %s", tag)}
}

// NewErrUnsupportedRoleType 角色列对字段类型有要求，
// 比如时间戳角色只能落在整型字段上
func NewErrUnsupportedRoleType(field string, typ string) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf("minorm: 字段 %s 的类型 %s 不支持该角色", field, typ)}
}

func NewErrUnknownRole(role string) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf("minorm: 未知的字段角色 %s", role)}
}

func NewErrUnknownField(name string) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf("minorm: 未知字段 %s", name)}
}

func NewErrUnknownColumn(name string) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf("minorm: 未知列 %s", name)}
}

func NewErrInvalidPageSize(n int) error {
	return &Error{kind: KindConfig, msg: fmt.Sprintf("minorm: 非法分页大小 %d", n)}
}

func NewErrArgCountMismatch(fragment string, markers, args int) error {
	return &Error{kind: KindConfig,
		msg: fmt.Sprintf("minorm: 片段 %q 有 %d 个占位符，但是传入了 %d 个参数", fragment, markers, args)}
}

// NewErrIncompatibleColumn 声明列的值无法转换到字段类型
func NewErrIncompatibleColumn(col string, src any, dst string) error {
	return &Error{kind: KindMapping,
		msg: fmt.Sprintf("minorm: 列 %s 的值 %v (%T) 无法转换为 %s", col, src, src, dst)}
}

// WrapMapping wraps a scan failure on a declared column.
func WrapMapping(col string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{kind: KindMapping, msg: fmt.Sprintf("minorm: 映射列 %s 失败", col), cause: cause}
}
