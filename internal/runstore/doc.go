// Package runstore manages pipeline run persistence backed by SQLite.
//
// Each end-to-end invocation records a run row plus the artifact paths it
// produced (transcript, resolved phrases, timeline, rendered video), so the
// runs command can report history without re-reading the work directory.
package runstore
