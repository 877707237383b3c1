// internal/logging/context.go
package logging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 2)

	if runID := RunIDFromContext(ctx); runID != "" {
		fields = append(fields, zap.String("run.id", runID))
	}

	if name := ToolFromContext(ctx); name != "" {
		fields = append(fields, zap.String("tool.name", name))
	}

	return fields
}

// Context key types
type runCtxKey struct{}
type toolCtxKey struct{}
type loggerCtxKey struct{}

// NewRunID returns a fresh identifier for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID adds the run ID to context.
// Panics if runID is not a valid UUID.
func WithRunID(ctx context.Context, runID string) context.Context {
	if _, err := uuid.Parse(runID); err != nil {
		panic("logging: invalid run ID: " + err.Error())
	}
	return context.WithValue(ctx, runCtxKey{}, runID)
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(runCtxKey{}).(string); ok {
		return r
	}
	return ""
}

// WithTool adds the name of the tool being run to context.
func WithTool(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, toolCtxKey{}, name)
}

// ToolFromContext extracts the tool name from context.
func ToolFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(toolCtxKey{}).(string); ok {
		return t
	}
	return ""
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
