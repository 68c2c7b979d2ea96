// Package workarea inspects and prunes run directories under the work root.
//
// Every generation run creates a bilingo-<run id> directory. Runs started with
// keep_work_dir, and runs killed before cleanup, leave theirs behind. Only
// directories carrying the run prefix are ever listed or removed, because the
// work root defaults to the shared system temp directory.
package workarea
