package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	minorm "github.com/coderi421/minorm"
)

const instrumentationName = "github.com/coderi421/minorm/middlewares/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m *MiddlewareBuilder) Build() minorm.Middleware {
	if m.Tracer == nil {
		// 创建 tracer 实例
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next minorm.Handler) minorm.Handler {
		return func(ctx context.Context, qc *minorm.QueryContext) *minorm.QueryResult {
			table := "unknown"
			if qc.Model != nil {
				table = qc.Model.TableName
			}
			spanCtx, span := m.Tracer.Start(ctx, qc.Type+"-"+table)
			defer span.End()

			span.SetAttributes(attribute.String("db.operation", qc.Type))
			span.SetAttributes(attribute.String("db.sql.table", table))
			if q, err := qc.Builder.Build(); err == nil {
				span.SetAttributes(attribute.String("db.statement", q.SQL))
			}

			res := next(spanCtx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
			}
			return res
		}
	}
}
