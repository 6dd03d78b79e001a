// Package data accumulates the key/value context templates render against.
//
// Partial maps are merged shallowly, in task order, with later keys replacing
// earlier ones. The package also holds the collaborators that produce those
// partials: package manifest and repository metadata loaders, file-existence
// predicates, and the alias strategies used by the alias helper.
package data
