// Package render turns the selected source template into README.md.
//
// A Pipeline runs a fixed sequence of stages over an in-memory file set:
// source selection, pre-render hooks, the primary engine pass, the per-file
// engine pass (which also applies layouts), post-render hooks, the configured
// post-processing stages, and finally the write sink. The first failing stage
// aborts the run; nothing is written unless every earlier stage succeeded.
package render
