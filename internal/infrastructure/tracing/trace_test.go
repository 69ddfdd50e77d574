package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartSpanFreshTrace(t *testing.T) {
	tracer := New("test", zap.NewNop())

	span, ctx := tracer.StartSpan(context.Background(), "op")
	assert.NotEmpty(t, span.TraceID)
	assert.NotEmpty(t, span.SpanID)
	assert.Empty(t, span.ParentID)

	assert.Equal(t, span.TraceID, GetTraceID(ctx))
	assert.Equal(t, span.SpanID, GetSpanID(ctx))
}

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("test", zap.NewNop())

	parent, ctx := tracer.StartSpan(context.Background(), "parent")
	child, _ := tracer.StartSpan(ctx, "child")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New("test", zap.NewNop())

	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/ping", func(c *gin.Context) {
		assert.NotEmpty(t, GetTraceID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	t.Run("fresh trace", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
		assert.NotEmpty(t, w.Header().Get("X-Span-ID"))
	})

	t.Run("propagated trace", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("X-Trace-ID", "req_01ARZ3NDEKTSV4RRFFQ69G5FAV")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req_01ARZ3NDEKTSV4RRFFQ69G5FAV", w.Header().Get("X-Trace-ID"))
	})
}
