package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", "local", ""} {
		l, err := New(env)
		require.NoError(t, err, env)
		assert.NotNil(t, l, env)
	}

	prod, _ := New("production")
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel))
	dev, _ := New("development")
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).Sugar().With("requestId", "r1")

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx).Infow("hello")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "hello", entry.Message)
	assert.Equal(t, "r1", entry.ContextMap()["requestId"])

	assert.Same(t, zap.S(), FromContext(context.Background()))
	assert.Same(t, zap.S(), FromContext(nil)) //nolint:staticcheck
}
