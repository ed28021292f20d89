package querylog

import (
	"context"

	"github.com/sirupsen/logrus"

	minorm "github.com/coderi421/minorm"
)

// MiddlewareBuilder 打印每条语句和参数
// 零值可用，默认走 logrus 的标准 logger
type MiddlewareBuilder struct {
	logFunc func(query string, args []any)
}

// LogFunc 这里如果需要配置的参数比较多，可以使用 函数选项模式
func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Build() minorm.Middleware {
	if m.logFunc == nil {
		m.logFunc = func(query string, args []any) {
			logrus.WithFields(logrus.Fields{
				"sql":  query,
				"args": args,
			}).Debug("minorm query")
		}
	}
	return func(next minorm.Handler) minorm.Handler {
		return func(ctx context.Context, qc *minorm.QueryContext) *minorm.QueryResult {
			q, err := qc.Builder.Build()
			if err != nil {
				// 构造都失败了，没什么好记录的
				return &minorm.QueryResult{Err: err}
			}
			m.logFunc(q.SQL, q.Args)
			return next(ctx, qc)
		}
	}
}
