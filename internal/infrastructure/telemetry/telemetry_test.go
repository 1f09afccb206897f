package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wms/backend/internal/infrastructure/config"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), &config.TelemetryConfig{Enabled: false}, "test", nil)
	require.NoError(t, err)
	assert.False(t, tp.Enabled())
	assert.NotNil(t, tp.Tracer("wms"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, err := NewTracerProvider(context.Background(), &config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "127.0.0.1:4317",
		Insecure:          true,
		SamplingRatio:     0.5,
		ServiceName:       "wms-test",
	}, "test", nil)
	require.NoError(t, err)
	assert.True(t, tp.Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = tp.Shutdown(ctx)
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestRegisterDBTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, RegisterDBTracing(db, "sqlite", time.Second, nil))

	require.NoError(t, db.Exec("CREATE TABLE probes (id INTEGER PRIMARY KEY, name TEXT)").Error)
	require.NoError(t, db.Exec("INSERT INTO probes (name) VALUES (?)", "flour").Error)
	var count int64
	require.NoError(t, db.Table("probes").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.Error(t, db.Table("missing").Count(&count).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	last := spans[len(spans)-1]
	assert.Equal(t, codes.Error, last.Status().Code)
}

func TestMetrics_RegisterDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m := NewMetrics("wms")
	require.NoError(t, m.RegisterDB(sqlDB, "primary"))
	assert.Error(t, m.RegisterDB(sqlDB, "primary"))
}
