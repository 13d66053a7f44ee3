// Package request models a render job: the user-facing knobs (topic, voice,
// caption style, music level, branding) and the asset paths the engine needs.
//
// Requests arrive as YAML files or CLI flags, are completed from
// configuration defaults, and are validated before any media work starts.
package request
