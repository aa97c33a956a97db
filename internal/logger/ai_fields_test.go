package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  provider  ", Value: "  chat  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	if fields[0].Key != "provider" || fields[0].String != "chat" {
		t.Fatalf("unexpected provider field: %+v", fields[0])
	}

	if empty := StringFields(); len(empty) != 0 {
		t.Fatalf("expected empty fields, got %d", len(empty))
	}
}

func TestWithFieldsFallsBackToNop(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithFields(zap.New(core), zap.String("foo", "bar")).Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["foo"] != "bar" {
		t.Fatalf("expected field foo=bar, got %v", entries[0].ContextMap())
	}

	enriched := WithFields(nil, zap.String("baz", "qux"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("another log")
}

func TestWithCommonFields(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithCommonFields(zap.New(core), "chat", "deepseek-r1").Info("test log")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "chat" {
		t.Fatalf("expected provider field to be chat, got %q", ctx[FieldProvider])
	}
	if ctx[FieldModel] != "deepseek-r1" {
		t.Fatalf("expected model field to be deepseek-r1, got %q", ctx[FieldModel])
	}

	if fields := CommonFields("", ""); len(fields) != 0 {
		t.Fatalf("expected empty fields, got %d", len(fields))
	}
}

func TestWithAnalysis(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithAnalysis(zap.New(core), "a-1").Info("step")
	WithAnalysis(zap.New(core), " ").Info("step")

	entries := observed.All()
	if entries[0].ContextMap()[FieldAnalysisID] != "a-1" {
		t.Fatalf("expected analysis id, got %v", entries[0].ContextMap())
	}
	if _, ok := entries[1].ContextMap()[FieldAnalysisID]; ok {
		t.Fatalf("blank analysis id must be omitted")
	}
}

func TestNewBuildsLogger(t *testing.T) {
	l, err := New(true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level expected to be enabled")
	}
}

func TestWithStage(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithStage(zap.New(core), "skills").Info("stage done")

	if got := observed.All()[0].ContextMap()[FieldStage]; got != "skills" {
		t.Fatalf("expected stage field, got %v", got)
	}
}
