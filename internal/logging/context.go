package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for aggregation run identifiers.
	FieldRunID = "run_id"
	// FieldPhase is the standardized structured logging key for pipeline phases.
	FieldPhase = "phase"
	// FieldSource is the standardized structured logging key for voting source names.
	FieldSource = "source"
	// FieldItem is the standardized structured logging key for item keys.
	FieldItem = "item"
)

type runIDKey struct{}

// WithRunID stores the aggregation run identifier on ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey{}, strings.TrimSpace(runID))
}

// RunIDFromContext returns the run identifier stored by WithRunID.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
