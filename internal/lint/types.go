// Package lint produces non-fatal warnings about the source template and
// the rendered README. Warnings are collected during a run and reported once
// generation has finished.
package lint

// Severity indicates how much attention a warning needs.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Warning is one lint record.
type Warning struct {
	Filename string   `json:"filename"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"-"`
	Line     int      `json:"line,omitempty"` // 0 for file-level warnings
}

// Subject is what a rule inspects.
type Subject struct {
	Filename string
	Content  []byte
	// Layout is the layout named by the source front matter, if any.
	Layout string
}

// Rule is a single check.
type Rule interface {
	Name() string
	Check(s Subject) []Warning
}

// Collector accumulates warnings in the order they are reported.
type Collector struct {
	warnings []Warning
}

// Add appends warnings.
func (c *Collector) Add(ws ...Warning) {
	c.warnings = append(c.warnings, ws...)
}

// Run applies rule to s and keeps the result.
func (c *Collector) Run(rule Rule, s Subject) {
	c.Add(rule.Check(s)...)
}

// Warnings returns a copy of the collected warnings.
func (c *Collector) Warnings() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Len returns the number of collected warnings.
func (c *Collector) Len() int { return len(c.warnings) }
