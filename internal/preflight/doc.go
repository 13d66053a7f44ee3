// Package preflight provides readiness checks for the filesystem paths and
// tools a render depends on.
//
// The render engine calls RunAll before starting work so a full disk or an
// unwritable output directory fails fast. The CLI "reelsmith doctor" command
// prints the same checks alongside CheckSystemDeps.
package preflight
