// Package logging provides structured logging for lintlizard.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Output on stderr so tool output on stdout stays clean
//   - Automatic context field injection (run ID, tool name)
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithRunID(ctx, logging.NewRunID())
//	ctx = logging.WithTool(ctx, "black")
//	logger.Info(ctx, "tool finished", zap.Duration("duration", d))
//
// Output includes automatic correlation:
//
//	2026-10-16T10:15:30.000Z  info  tool finished  {"run.id": "9b2c...", "tool.name": "black", "duration": "1.2s"}
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
package logging
