package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/dotandev/tooling/internal/config"
)

func TestInit(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	t.Run("Should install a recording provider without an exporter", func(t *testing.T) {
		shutdown, err := Init(context.Background(), config.TelemetryConfig{ServiceName: "tooling-test"})
		require.NoError(t, err)
		defer shutdown(context.Background())

		_, span := Tracer().Start(context.Background(), "probe")
		defer span.End()

		assert.True(t, span.SpanContext().IsValid())
		assert.True(t, span.IsRecording())
	})

	t.Run("Should build an exporting provider when an endpoint is set", func(t *testing.T) {
		shutdown, err := Init(context.Background(), config.TelemetryConfig{
			ServiceName: "tooling-test",
			Endpoint:    "http://127.0.0.1:4318",
		})
		require.NoError(t, err)

		assert.NoError(t, shutdown(context.Background()))
	})
}
