package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewWriter(t *testing.T) {
	t.Run("JSONRedactsCredentials", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		var buf bytes.Buffer
		log := NewWriter(&buf)

		log.Info("signed in", "token", "eyJhbGciOi.secret", "header", "Bearer eyJhbGciOi.secret", "user_id", 3)

		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, redacted, rec["token"])
		assert.Equal(t, "Bearer "+redacted, rec["header"])
		assert.EqualValues(t, 3, rec["user_id"])
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("TraceIDs", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		var buf bytes.Buffer
		log := NewWriter(&buf)

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))
		log.InfoContext(ctx, "agenda loaded")

		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", rec["span_id"])
	})

	t.Run("TextMasksPassword", func(t *testing.T) {
		t.Setenv("ENV", "local")
		t.Setenv("KUBERNETES_SERVICE_HOST", "")
		require.NoError(t, os.Unsetenv("KUBERNETES_SERVICE_HOST"))
		var buf bytes.Buffer
		log := NewWriter(&buf)

		log.Error("remote down", "senha", "1234")

		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "remote down")
		assert.NotContains(t, buf.String(), "1234")
	})

	t.Run("LevelFromEnv", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		t.Setenv("LOG_LEVEL", "warn")
		var buf bytes.Buffer
		log := NewWriter(&buf)

		log.Info("hidden")

		assert.Empty(t, buf.String())
	})
}
