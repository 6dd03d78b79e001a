// Package readme wires the README generator's tasks onto a taskgraph.Graph.
//
// Every Generate call builds a fresh Run, the run-scoped state threaded
// through each task body. The readme task depends on setup (options, plugins,
// middleware, data), templates and verbmd, so by the time it renders the data
// context is complete, the fragment registry is loaded and the source
// template has been acquired.
//
// Source acquisition (the verbmd task) tries, in order: a source already
// registered under a reserved key, the disabled flag, the configured input
// file on disk, and finally an interactive offer to scaffold one from the
// built-in basic template.
package readme
