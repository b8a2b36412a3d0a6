package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating OpenTelemetry spans.
//
// Each event becomes a span named after the event, carrying the execution,
// workflow, and node identifiers plus the event metadata as attributes.
// Events are points in time, so spans are ended immediately; batch span
// processors handle export.
//
// Usage:
//
//	tracer := otel.Tracer("flowgrid")
//	emitter := emit.NewOTelEmitter(tracer)
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter from an OpenTelemetry tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates and ends a span for the event. A span is marked as an error
// when the event metadata contains an "error" entry.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Name)
	defer span.End()

	span.SetAttributes(
		attribute.String("execution_id", event.ExecutionID),
		attribute.String("workflow_id", event.WorkflowID),
	)
	if event.NodeID != "" {
		span.SetAttributes(attribute.String("node_id", event.NodeID))
	}

	for key, value := range event.Meta {
		span.SetAttributes(metaAttribute(key, value))
	}

	if errMsg, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
}

func metaAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
