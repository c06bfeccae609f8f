package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanPrefixRegistry = "skills."
	SpanPrefixStore    = "store."
)

// Span attribute keys.
const (
	AttrSkillID       = "skill.id"
	AttrSkillName     = "skill.name"
	AttrSkillLevel    = "skill.level"
	AttrSkillCount    = "skill.count"
	AttrSortCriterion = "sort.criterion"
	AttrStoreBackend  = "store.backend"
	AttrOutcome       = "outcome"
)

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
