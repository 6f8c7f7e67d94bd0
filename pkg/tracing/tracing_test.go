package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupRecorder 安装内存Span记录器，测试结束后恢复原Provider
func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestInitTracer(t *testing.T) {
	// gRPC连接是惰性的，Collector不在线也能初始化成功
	shutdown, err := InitTracer("postboard-test", "http://localhost:4317")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_ = shutdown(context.Background())
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "localhost:4317", normalizeEndpoint("http://localhost:4317"))
	assert.Equal(t, "jaeger:4317", normalizeEndpoint("https://jaeger:4317/"))
	assert.Equal(t, "otel:4317", normalizeEndpoint("otel:4317"))
	assert.Equal(t, "localhost:4317", normalizeEndpoint(""))
}

func TestStartSpan_ChildSharesTraceID(t *testing.T) {
	recorder := setupRecorder(t)

	ctx, root := StartSpan(context.Background(), TracerName, "ImportPosts")
	_, child := StartSpan(ctx, TracerName, "ImportBatch")
	child.End()
	root.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "ImportBatch", spans[0].Name())
	assert.Equal(t, "ImportPosts", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestRecordError(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := StartSpan(context.Background(), TracerName, "ImportBatch")
	RecordError(span, nil)
	RecordError(span, errors.New("duplicate entry"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "duplicate entry", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
}

func TestExtractIDs(t *testing.T) {
	setupRecorder(t)

	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), TracerName, "ViewPost")
	defer span.End()

	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}
