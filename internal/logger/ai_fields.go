package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by the model and analysis code.
const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldStage      = "stage"
	FieldMethod     = "method"
	FieldAnalysisID = "analysis_id"
)

// StringField is a key/value pair that is dropped when either side is blank.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the pairs into trimmed zap fields.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key != "" && value != "" {
			out = append(out, zap.String(key, value))
		}
	}
	return out
}

// WithFields attaches fields to l; a nil l becomes a no-op logger.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// CommonFields describes the completion backend.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(l *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(l, CommonFields(provider, model)...)
}

// WithAnalysis tags every entry of one CV analysis.
func WithAnalysis(l *zap.Logger, analysisID string) *zap.Logger {
	return WithFields(l, StringFields(StringField{Key: FieldAnalysisID, Value: analysisID})...)
}

// WithStage tags the entries of one extraction stage.
func WithStage(l *zap.Logger, stage string) *zap.Logger {
	return WithFields(l, StringFields(StringField{Key: FieldStage, Value: stage})...)
}
