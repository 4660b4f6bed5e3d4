package persistence

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rai/user-management-api/modules/users/domain"
)

var tracer = otel.Tracer("github.com/rai/user-management-api/modules/users/infrastructure/persistence")

func startSpan(ctx context.Context, system, operation string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "users."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("db.operation", operation),
		),
	)
}

// finishSpan ends span, marking it failed unless err is nil or an expected miss.
func finishSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) && !errors.Is(err, domain.ErrDuplicateKey) {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}
