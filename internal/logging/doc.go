// Package logging builds slog loggers for reelsmith.
//
// Two formats are supported: a compact console line that lifts the component
// and request id to the front, and JSON for machine consumption. Helpers in
// this package standardize field names (component, stage, request_id) and the
// shape of warnings so degraded renders are easy to spot in logs.
package logging
