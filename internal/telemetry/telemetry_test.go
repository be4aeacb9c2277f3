package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "robotapp-backend", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitInstallsProvider(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown, err := Init(context.Background(), "robotapp-backend", "http://127.0.0.1:4318")
	require.NoError(t, err)
	t.Cleanup(func() {
		otel.SetTracerProvider(before)
		_ = shutdown(context.Background())
	})

	assert.NotSame(t, before, otel.GetTracerProvider())
}
