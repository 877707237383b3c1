package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestContextFields_Empty(t *testing.T) {
	fields := ContextFields(context.Background())
	assert.Empty(t, fields)
}

func TestContextFields_RunAndTool(t *testing.T) {
	runID := NewRunID()
	ctx := WithRunID(context.Background(), runID)
	ctx = WithTool(ctx, "black")

	fields := ContextFields(ctx)
	require.Len(t, fields, 2)
	assertFieldExists(t, fields, "run.id", runID)
	assertFieldExists(t, fields, "tool.name", "black")
}

func TestWithRunID_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		WithRunID(context.Background(), "not-a-uuid")
	})
}

func TestWithTool_EmptyNameIsIgnored(t *testing.T) {
	ctx := WithTool(context.Background(), "")
	assert.Equal(t, "", ToolFromContext(ctx))
}

func TestNewRunID_Unique(t *testing.T) {
	assert.NotEqual(t, NewRunID(), NewRunID())
}

func TestFromContext(t *testing.T) {
	t.Run("missing logger returns nop", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.False(t, l.Enabled(zapcore.ErrorLevel))
	})

	t.Run("stored logger is returned", func(t *testing.T) {
		tl := NewTestLogger()
		ctx := WithLogger(context.Background(), tl.Logger)
		FromContext(ctx).Info(ctx, "via context")
		tl.AssertLogged(t, zapcore.InfoLevel, "via context")
	})
}

func assertFieldExists(t *testing.T, fields []zap.Field, key, value string) {
	t.Helper()
	for _, f := range fields {
		if f.Key == key && f.String == value {
			return
		}
	}
	t.Errorf("field %s=%s not found in %v", key, value, fields)
}
