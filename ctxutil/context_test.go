package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetTraceID(ctx))

	same, again := EnsureTraceID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, id, GetTraceID(same))
}

func TestTraceIDThroughGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	ctx := WithGinContext(context.Background(), c)
	ctx = SetTraceID(ctx, "abc")

	v, ok := c.Get(TraceIDKey)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	assert.Equal(t, "abc", GetTraceID(ctx))
}

func TestWithAsyncContext(t *testing.T) {
	parent, cancel := context.WithCancel(SetTraceID(context.Background(), "t-1"))
	ctx, done := WithAsyncContext(parent, time.Second)
	defer done()

	cancel()
	assert.NoError(t, ctx.Err())
	assert.Equal(t, "t-1", GetTraceID(ctx))
}
