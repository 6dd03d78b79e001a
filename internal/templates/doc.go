// Package templates discovers and ranks the reusable fragments a README is
// composed from: docs, layouts, includes and badges.
//
// Fragments come from three kinds of source: the built-in set embedded in the
// binary, the project's own docs directory, and the views section of the
// project configuration. Within a category, a fragment registered later under
// the same normalized key replaces the earlier one, so the load order in
// Resolver.LoadDefaults and the views pass in Resolver.ApplyViews define the
// override precedence.
package templates
