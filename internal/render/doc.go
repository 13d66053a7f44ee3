// Package render is the request entry point. Engine.Render runs one request
// synchronously: narration is measured, the script is segmented and drawn,
// the background loop is assembled, audio is mixed, and the composition is
// published atomically. Plan and Preview share the same resolution steps
// without encoding the full video.
//
// Each request gets a uuid, an isolated work directory under
// paths.work_dir, and an advisory lock on its output path so two renders to
// the same file never interleave.
package render
