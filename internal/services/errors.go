package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput         = errors.New("input error")
	ErrEmptyPool     = errors.New("empty clip pool")
	ErrClipRead      = errors.New("clip read error")
	ErrEmptyScript   = errors.New("empty script")
	ErrEncode        = errors.New("encode error")
	ErrResource      = errors.New("resource error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrEncode
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind names the failure class of err so callers can report one terminal kind
// per request. Unclassified errors report "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInput):
		return "InputError"
	case errors.Is(err, ErrEmptyPool):
		return "EmptyPoolError"
	case errors.Is(err, ErrClipRead):
		return "ClipReadError"
	case errors.Is(err, ErrEmptyScript):
		return "EmptyScriptError"
	case errors.Is(err, ErrEncode):
		return "EncodeError"
	case errors.Is(err, ErrResource):
		return "ResourceError"
	case errors.Is(err, ErrConfiguration):
		return "ConfigurationError"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "render failure"
	}
	return strings.Join(parts, ": ")
}
