package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	if got := TruncateRunes("éléphant", 3); got != "élé" {
		t.Fatalf("expected rune-aware cut, got %q", got)
	}
	if got := TruncateRunes("abc", 10); got != "abc" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
	if got := TruncateRunes("abc", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	t.Parallel()

	if got := CollapseSpaces("  Jean \t\n  Dupont  "); got != "Jean Dupont" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestWaitForHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForReturnsAfterDelay(t *testing.T) {
	t.Parallel()

	if err := WaitFor(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
