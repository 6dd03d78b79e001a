// Package taskgraph runs named tasks in dependency order.
//
// A Graph holds task definitions keyed by name. Running a task resolves its
// full dependency closure first (dependencies strictly before dependents, each
// task exactly once) and then executes the bodies sequentially on the calling
// goroutine. The first failing body aborts the run; tasks that have not
// started are abandoned.
//
// Bodies receive a run-scoped state value instead of closing over shared
// globals, so one Graph can serve many independent runs.
package taskgraph
