package minorm

// Query 渲染结果：SQL 文加上按顺序排列的绑定参数
// 文本里的占位符个数和 Args 的长度严格一致
type Query struct {
	SQL  string
	Args []any
}

type QueryBuilder interface {
	Build() (*Query, error)
}
