package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/readmegen/internal/foundation/errors"
)

// Overrides are CLI flag values; nil fields were not set.
type Overrides struct {
	Readme    *string
	Dest      *string
	Verbmd    *bool
	Generator *bool
	Layout    *string
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Dir is the project root; empty means the working directory.
	Dir string
	// ConfigFile is the config path relative to Dir. Empty selects
	// DefaultConfigFile, which may be absent.
	ConfigFile string
	Overrides  Overrides
}

// Load builds the run configuration. Later layers win: defaults, the verb
// section of package.json, the config file, then overrides.
func Load(opts LoadOptions) (*Config, error) {
	dir, err := filepath.Abs(defaultString(opts.Dir, "."))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "resolve project directory").Build()
	}

	loadEnvFiles(dir)

	cfg := Default()
	cfg.ProjectDir = dir

	if err := applyManifest(cfg, dir); err != nil {
		return nil, err
	}

	explicit := opts.ConfigFile != ""
	path := resolve(dir, defaultString(opts.ConfigFile, DefaultConfigFile))
	if err := applyFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	opts.Overrides.apply(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles exports .env and .env.local from dir without overriding
// variables already set in the environment.
func loadEnvFiles(dir string) {
	var files []string
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	if len(files) > 0 {
		_ = godotenv.Load(files...)
	}
}

func applyManifest(cfg *Config, dir string) error {
	path := filepath.Join(dir, "package.json")
	raw, err := os.ReadFile(path) // #nosec G304 -- manifest inside the project root
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "read package.json").Build()
	}

	var manifest struct {
		Verb json.RawMessage `json:"verb"`
	}
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "parse package.json").
			WithContext("path", path).Build()
	}
	if len(manifest.Verb) == 0 || string(manifest.Verb) == "null" {
		return nil
	}
	if err := json.Unmarshal(manifest.Verb, cfg); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid verb section in package.json").
			WithContext("path", path).Build()
	}
	if err := json.Unmarshal(manifest.Verb, &cfg.Verb); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "verb section in package.json must be an object").
			WithContext("path", path).Build()
	}
	return nil
}

func applyFile(cfg *Config, path string, explicit bool) error {
	raw, err := os.ReadFile(path) // #nosec G304 -- user-selected config file
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "read config file").
			WithContext("path", path).Build()
	}

	expanded := os.ExpandEnv(string(raw))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(expanded, cfg)
	case ".json":
		err = json.Unmarshal([]byte(expanded), cfg)
	default:
		err = yaml.Unmarshal([]byte(expanded), cfg)
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "parse config file").
			WithContext("path", path).Build()
	}
	cfg.Source = path
	return nil
}

func (o Overrides) apply(cfg *Config) {
	if o.Readme != nil {
		cfg.Readme = *o.Readme
	}
	if o.Dest != nil {
		cfg.Dest = *o.Dest
	}
	if o.Verbmd != nil {
		cfg.Verbmd = *o.Verbmd
	}
	if o.Generator != nil {
		cfg.Generator = *o.Generator
	}
	if o.Layout != nil {
		cfg.Layout = *o.Layout
	}
}

// finalize normalizes enums and checks the values other packages rely on.
func (c *Config) finalize() error {
	if strings.TrimSpace(c.Readme) == "" {
		c.Readme = Default().Readme
	}
	if c.Tool == "" {
		c.Tool = Default().Tool
	}

	if len(c.Engine.Delims) != 2 || c.Engine.Delims[0] == "" || c.Engine.Delims[1] == "" {
		return ferrors.ConfigError("engine.delims must hold exactly two non-empty strings").
			WithContext("delims", fmt.Sprint(c.Engine.Delims)).Build()
	}

	include, err := missingIncludeNormalizer.NormalizeStrict(c.Engine.MissingInclude)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid engine configuration").Build()
	}
	c.Engine.MissingInclude = string(include)

	dataPolicy, err := missingDataNormalizer.NormalizeStrict(c.Engine.MissingData)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid engine configuration").Build()
	}
	c.Engine.MissingData = string(dataPolicy)
	return nil
}

// ReadmePath returns the absolute path of the input template.
func (c *Config) ReadmePath() string {
	return resolve(c.ProjectDir, c.Readme)
}

// DestDir returns the absolute output directory.
func (c *Config) DestDir() string {
	return resolve(c.ProjectDir, defaultString(c.Dest, "."))
}

// PrimaryDelims returns the primary engine delimiters as a pair.
func (c *Config) PrimaryDelims() [2]string {
	return [2]string{c.Engine.Delims[0], c.Engine.Delims[1]}
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
