package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerProvider(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		wantNil  bool
		wantErr  bool
	}{
		{name: "disabled", exporter: "", wantNil: true},
		{name: "none", exporter: "none", wantNil: true},
		{name: "stdout", exporter: "stdout"},
		{name: "unknown", exporter: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := newTracerProvider(tt.exporter, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, tp)
				return
			}
			require.NotNil(t, tp)
			assert.NoError(t, tp.Shutdown(context.Background()))
		})
	}
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, err := newTracerProvider("stdout", &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("solarlink.reconcile").Start(context.Background(), "RunAutoMatch")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name": "RunAutoMatch"`)
	assert.Contains(t, buf.String(), serviceName)
}

func TestSetupTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := setupTracing("", &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
