// Package services defines shared utilities consumed by the render stages.
//
// Key responsibilities:
//   - Context helpers that stamp request identifiers and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the terminal kinds surfaced to callers (input, empty pool, empty
//     script, encode, resource).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
