package services

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(WithStage(context.Background(), "captions"), "req-1")
	if stage, ok := StageFromContext(ctx); !ok || stage != "captions" {
		t.Fatalf("unexpected stage: %q %v", stage, ok)
	}
	if id, ok := RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("unexpected request id: %q %v", id, ok)
	}
}

func TestContextIgnoresEmptyValues(t *testing.T) {
	ctx := WithRequestID(WithStage(context.Background(), ""), "")
	if _, ok := StageFromContext(ctx); ok {
		t.Fatal("expected no stage")
	}
	if _, ok := RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}
