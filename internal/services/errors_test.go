package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"reelsmith/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrEncode, "compose", "encode core", "ffmpeg failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrEncode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"compose", "encode core", "ffmpeg failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrEncode) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "render failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		marker error
		want   string
	}{
		{services.ErrInput, "InputError"},
		{services.ErrEmptyPool, "EmptyPoolError"},
		{services.ErrClipRead, "ClipReadError"},
		{services.ErrEmptyScript, "EmptyScriptError"},
		{services.ErrEncode, "EncodeError"},
		{services.ErrResource, "ResourceError"},
		{services.ErrConfiguration, "ConfigurationError"},
	}
	for _, tc := range cases {
		err := fmt.Errorf("outer: %w", services.Wrap(tc.marker, "stage", "op", "msg", nil))
		if got := services.Kind(err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.marker, got, tc.want)
		}
	}
	if got := services.Kind(nil); got != "" {
		t.Fatalf("expected empty kind for nil, got %q", got)
	}
	if got := services.Kind(errors.New("plain")); got != "internal" {
		t.Fatalf("expected internal kind, got %q", got)
	}
}
