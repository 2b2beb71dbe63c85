package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	listSpanName  = "schedule.tasks.list"
	listRouteName = "/api/tasks"
)

// listRequestMetrics collects per-request timings for the task list route
// and emits them both as a trace span and a structured log event.
type listRequestMetrics struct {
	logger         *log.Logger
	span           trace.Span
	start          time.Time
	fetchDuration  time.Duration
	filterDuration time.Duration
	encodeDuration time.Duration
	view           string
	tasksReturned  int
	conflictsFound int
	errorStage     string
}

func newListRequestMetrics(ctx context.Context, logger *log.Logger) (*listRequestMetrics, context.Context) {
	tracer := otel.Tracer("scheduler-api")
	spanCtx, span := tracer.Start(ctx, listSpanName)
	return &listRequestMetrics{
		logger: logger,
		span:   span,
		start:  time.Now(),
	}, spanCtx
}

func (m *listRequestMetrics) ObserveFetch(d time.Duration) {
	if d > 0 {
		m.fetchDuration = d
	}
}

func (m *listRequestMetrics) ObserveFilter(d time.Duration) {
	if d > 0 {
		m.filterDuration = d
	}
}

func (m *listRequestMetrics) ObserveEncode(d time.Duration) {
	if d > 0 {
		m.encodeDuration = d
	}
}

func (m *listRequestMetrics) SetView(view string) {
	m.view = view
}

func (m *listRequestMetrics) SetTasksReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.tasksReturned = count
}

func (m *listRequestMetrics) SetConflictsFound(count int) {
	if count < 0 {
		count = 0
	}
	m.conflictsFound = count
}

func (m *listRequestMetrics) SetErrorStage(stage string) {
	if stage != "" {
		m.errorStage = stage
	}
}

// Log finishes the span and writes the structured log entry. It must be
// called exactly once, after the response has been written.
func (m *listRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}
	totalMs := durationToMillis(time.Since(m.start))

	if m.span != nil {
		attrs := []attribute.KeyValue{
			attribute.String("http.route", listRouteName),
			attribute.Int("http.status_code", status),
			attribute.String("schedule.view", m.view),
			attribute.Int("schedule.tasks_returned", m.tasksReturned),
			attribute.Int("schedule.conflicts_found", m.conflictsFound),
			attribute.Float64("schedule.total_ms", totalMs),
		}
		if m.errorStage != "" {
			attrs = append(attrs, attribute.String("schedule.error_stage", m.errorStage))
		}
		m.span.SetAttributes(attrs...)
		if err != nil || m.errorStage != "" {
			m.span.SetStatus(codes.Error, m.errorStage)
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"route":           listRouteName,
		"status":          status,
		"view":            m.view,
		"total_ms":        totalMs,
		"tasks_returned":  m.tasksReturned,
		"conflicts_found": m.conflictsFound,
	}
	if m.fetchDuration > 0 {
		fields["fetch_ms"] = durationToMillis(m.fetchDuration)
	}
	if m.filterDuration > 0 {
		fields["filter_ms"] = durationToMillis(m.filterDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	if m.span != nil {
		if sc := m.span.SpanContext(); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
	}
	m.logger.WithFields(fields).Info("tasks.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
