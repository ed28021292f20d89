package minorm

import (
	"context"

	"github.com/coderi421/minorm/model"
)

// QueryContext 中间件的上下文，冗余了 Builder 和 Model，
// 是因为还没有执行 sql 前，有的中间件需要使用这些信息
type QueryContext struct {
	// Type 声明查询类型。即 SELECT, UPDATE, DELETE, INSERT 和 RAW
	Type string

	// Builder 使用的时候，大多数情况下你需要转换到具体的类型
	// 才能篡改查询
	Builder QueryBuilder

	// Model 为了有的中间件在拦截时需要元数据信息
	Model *model.Model
}

type QueryResult struct {
	// Result 在不同的查询里面，类型是不同的
	// 单行查询里是 *T，多行查询里是 []*T
	// 其它情况下，它是 sql.Result
	Result any
	Err    error
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult
