// Package config loads generator settings from defaults, the package
// manifest's verb section, an optional config file, and CLI overrides.
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the project root when no --config is given.
const DefaultConfigFile = ".readmegen.yaml"

// Config holds the generator settings of one run.
type Config struct {
	// Readme is the input template, relative to the project root.
	Readme string `yaml:"readme" json:"readme" toml:"readme"`
	// Dest is the directory README.md is written to; empty means the project root.
	Dest string `yaml:"dest" json:"dest" toml:"dest"`
	// Verbmd enables source acquisition (loading or scaffolding the input template).
	Verbmd    bool   `yaml:"verbmd" json:"verbmd" toml:"verbmd"`
	Generator bool   `yaml:"generator" json:"generator" toml:"generator"`
	Tool      string `yaml:"tool" json:"tool" toml:"tool"`
	// Layout is used when the source front matter names none.
	Layout   string         `yaml:"layout" json:"layout" toml:"layout"`
	Engine   EngineConfig   `yaml:"engine" json:"engine" toml:"engine"`
	Pipeline []string       `yaml:"pipeline" json:"pipeline" toml:"pipeline"`
	TOC      TOCConfig      `yaml:"toc" json:"toc" toml:"toc"`
	Lint     LintConfig     `yaml:"lint" json:"lint" toml:"lint"`
	Data     map[string]any `yaml:"data" json:"data" toml:"data"`
	// Views is kept raw until the templates task processes it with ProcessViews.
	Views map[string]any `yaml:"views" json:"views" toml:"views"`

	// Verb is the raw verb section of package.json, exposed to templates as "verb".
	Verb map[string]any `yaml:"-" json:"-" toml:"-"`
	// ProjectDir is the absolute project root the config was loaded for.
	ProjectDir string `yaml:"-" json:"-" toml:"-"`
	// Source is the config file that was read, if any.
	Source string `yaml:"-" json:"-" toml:"-"`
}

// EngineConfig configures the template engines.
type EngineConfig struct {
	// Delims are the primary engine's action delimiters.
	Delims         []string `yaml:"delims" json:"delims" toml:"delims"`
	MissingInclude string   `yaml:"missing_include" json:"missing_include" toml:"missing_include"`
	MissingData    string   `yaml:"missing_data" json:"missing_data" toml:"missing_data"`
}

// LintConfig toggles optional lint checks.
type LintConfig struct {
	Reflinks bool `yaml:"reflinks" json:"reflinks" toml:"reflinks"`
}

// TOCConfig configures the toc stage. The manifest may also set toc to a
// plain boolean, which only toggles Enabled.
type TOCConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" toml:"enabled"`
	Footer  string `yaml:"footer" json:"footer" toml:"footer"`
}

type tocFields TOCConfig

// UnmarshalJSON accepts true/false or an object.
func (t *TOCConfig) UnmarshalJSON(b []byte) error {
	var enabled bool
	if err := json.Unmarshal(b, &enabled); err == nil {
		t.Enabled = enabled
		return nil
	}
	fields := tocFields(*t)
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	*t = TOCConfig(fields)
	return nil
}

// UnmarshalYAML accepts true/false or a mapping.
func (t *TOCConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return fmt.Errorf("toc: %w", err)
		}
		t.Enabled = enabled
		return nil
	}
	fields := tocFields(*t)
	if err := node.Decode(&fields); err != nil {
		return fmt.Errorf("toc: %w", err)
	}
	*t = TOCConfig(fields)
	return nil
}

// UnmarshalTOML accepts true/false or a table.
func (t *TOCConfig) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case bool:
		t.Enabled = val
	case map[string]any:
		if enabled, ok := val["enabled"].(bool); ok {
			t.Enabled = enabled
		}
		if footer, ok := val["footer"].(string); ok {
			t.Footer = footer
		}
	default:
		return fmt.Errorf("toc: unsupported value %T", v)
	}
	return nil
}

// PipelineStages returns the configured post-processing stages, without toc
// when the toc stage is disabled.
func (c *Config) PipelineStages() []string {
	out := make([]string, 0, len(c.Pipeline))
	for _, name := range c.Pipeline {
		if name == "toc" && !c.TOC.Enabled {
			continue
		}
		out = append(out, name)
	}
	return out
}
