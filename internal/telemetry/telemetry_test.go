package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTLPEndpointURL(t *testing.T) {
	tests := []struct {
		name     string
		specific string
		generic  string
		wantURL  string
		wantOK   bool
	}{
		{"generic base gets signal path", "", "http://collector:4318", "http://collector:4318/v1/traces", true},
		{"generic trailing slash", "", "http://collector:4318/", "http://collector:4318/v1/traces", true},
		{"specific used as is", "http://collector:4318/custom", "http://other:4318", "http://collector:4318/custom", true},
		{"bare host:port", "", "collector:4318", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, ok := resolveEndpoint(tt.specific, tt.generic)
			require.True(t, ok)
			u, isURL := ep.url(tracesPath)
			assert.Equal(t, tt.wantOK, isURL)
			assert.Equal(t, tt.wantURL, u)
		})
	}

	_, ok := resolveEndpoint("", "")
	assert.False(t, ok)
}

func TestInitExportsSpansOverOTLP(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("ABRT_OTEL_ENABLED", "true")
	t.Setenv("ABRT_OTEL_STDOUT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", srv.URL)

	ctx := context.Background()
	require.NoError(t, Init(ctx, "abrt-test", "0.0.0"))
	_, span := Tracer("").Start(ctx, "abrt.storage.list_problems")
	span.End()
	Shutdown(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, paths, tracesPath)
}
