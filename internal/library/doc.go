// Package library catalogues background clips and music tracks.
//
// Store keeps the catalog in SQLite; Dir reads the asset directory layout
// directly. Both satisfy Repository, which the render engine uses to build
// the background clip pool and pick music.
package library
