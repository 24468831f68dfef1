// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// BatchIDKey is the context key for the batch run ID
	BatchIDKey contextKey = "batch_id"
	// ClaimantKey is the context key for the claimant address being processed
	ClaimantKey contextKey = "claimant"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports batch_id and claimant from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if batchID, ok := ctx.Value(BatchIDKey).(string); ok && batchID != "" {
		newLogger = newLogger.WithBatchID(batchID)
	}

	if claimant, ok := ctx.Value(ClaimantKey).(string); ok && claimant != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("claimant", claimant)),
		}
	}

	return newLogger
}

// WithBatchID returns a logger with the batch run ID attached
func (l *Logger) WithBatchID(batchID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("batch_id", batchID)),
	}
}

// BatchItem logs the outcome of a single batch item
func (l *Logger) BatchItem(claimant, status, detail string) {
	if detail != "" {
		l.Info("batch_item",
			slog.String("claimant", claimant),
			slog.String("status", status),
			slog.String("detail", detail),
		)
		return
	}
	l.Info("batch_item",
		slog.String("claimant", claimant),
		slog.String("status", status),
	)
}

// NotificationSent logs an outbound claimant notification
func (l *Logger) NotificationSent(claimant, kind string) {
	l.Info("notification_sent",
		slog.String("claimant", claimant),
		slog.String("kind", kind),
	)
}

// TrackerEvent logs a ticket tracker interaction
func (l *Logger) TrackerEvent(event, ticket string, err error) {
	if err != nil {
		l.Warn("tracker_event",
			slog.String("event", event),
			slog.String("ticket", ticket),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Info("tracker_event",
		slog.String("event", event),
		slog.String("ticket", ticket),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
