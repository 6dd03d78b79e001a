package render

import "errors"

var (
	// ErrNoSource is returned when the pipeline runs without any source file.
	ErrNoSource = errors.New("no source template to render")
	// ErrSourceNotRegistered is returned when files are loaded but none is the designated source.
	ErrSourceNotRegistered = errors.New("source template is not registered")
	// ErrMissingInclude is returned for unknown include, badge or doc references when missing includes are fatal.
	ErrMissingInclude = errors.New("missing include")
	// ErrMissingData is returned for unknown identifiers when missing data is fatal.
	ErrMissingData = errors.New("missing data")
	// ErrIncludeDepth is returned when fragments include each other too deeply, usually a cycle.
	ErrIncludeDepth = errors.New("include nesting too deep")
	// ErrLayoutCycle is returned when layouts extend each other in a loop.
	ErrLayoutCycle = errors.New("layout cycle")
)
