package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled)
	require.Equal(t, "file", cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "glint", cfg.ServiceName)
}

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	require.False(t, p.Enabled())

	_, span := p.Tracer().Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, p.Shutdown(context.Background()))
}

func TestProvider_NilSafe(t *testing.T) {
	var p *Provider
	require.False(t, p.Enabled())
	require.NotNil(t, p.Tracer())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.ErrorContains(t, err, "file_path required")

	_, err = NewProvider(Config{Enabled: true, Exporter: "zipkin"})
	require.ErrorContains(t, err, "unsupported exporter type: zipkin")
}

func TestNewProvider_FileExporterWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.jsonl")
	p, err := NewProvider(Config{Enabled: true, Exporter: "file", FilePath: path})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	ctx, parent := Start(context.Background(), p.Tracer(), SpanPageHighlight, attribute.Int(AttrPageBlocks, 2))
	_, child := Start(ctx, p.Tracer(), SpanBlockProcess, attribute.String(AttrBlockID, "b1"))
	End(child, errors.New("boom"))
	End(parent, nil)

	require.NoError(t, p.Shutdown(context.Background()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records := map[string]SpanRecord{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		records[rec.Name] = rec
	}
	require.NoError(t, sc.Err())
	require.Len(t, records, 2)

	pageRec := records[SpanPageHighlight]
	blockRec := records[SpanBlockProcess]
	require.Equal(t, "OK", pageRec.Status)
	require.Equal(t, "ERROR", blockRec.Status)
	require.Equal(t, "boom", blockRec.StatusMsg)
	require.Equal(t, pageRec.SpanID, blockRec.ParentSpanID)
	require.Equal(t, pageRec.TraceID, blockRec.TraceID)
	require.Equal(t, "b1", blockRec.Attributes[AttrBlockID])
	require.NotEmpty(t, blockRec.Events, "RecordError adds an exception event")
}

func TestNewProvider_NoneExporter(t *testing.T) {
	p, err := NewProvider(Config{Enabled: true, Exporter: "none", SampleRate: -1})
	require.NoError(t, err)

	_, span := p.Tracer().Start(context.Background(), "x")
	require.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestStart_NilTracer(t *testing.T) {
	ctx, span := Start(context.Background(), nil, "x")
	require.NotNil(t, ctx)
	require.NotPanics(t, func() { End(span, nil) })
}

func TestFileExporter_ShutdownTwiceAndExportAfter(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "t.jsonl"))
	require.NoError(t, err)

	require.NoError(t, exp.ExportSpans(context.Background(), nil))
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	_, span := tp.Tracer("t").Start(context.Background(), "late")
	span.End()

	require.Error(t, exp.ExportSpans(context.Background(), rec.Ended()))
}
