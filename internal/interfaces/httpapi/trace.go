package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var handlerTracer = otel.Tracer("squad-tracker/internal/interfaces/httpapi")

// startHandlerSpan opens "httpapi.<operation>" as a child of the otelhttp
// request span, tagged with the matched route and the player id when the
// route carries one. Requests without a request span (health checks, tests)
// get the non-recording span already in the context.
func startHandlerSpan(r *http.Request, operation string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return handlerTracer.Start(ctx, "httpapi."+operation, trace.WithAttributes(handlerAttributes(r)...))
}

func handlerAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	if id := r.PathValue("playerID"); id != "" {
		attrs = append(attrs, attribute.String("squad.player_id", id))
	}
	return attrs
}
