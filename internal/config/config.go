package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".masmfmt.hcl"

// DefaultInclude selects every masm source file below the root.
var DefaultInclude = []string{"**/*.masm"}

// Config selects which files the formatter touches and how many it works on
// at once. It has no say over the layout itself.
type Config struct {
	Files Files
	Jobs  int
}

// Files holds doublestar patterns, matched against slash-separated paths
// relative to the directory being formatted.
type Files struct {
	Include []string
	Exclude []string
}

// rawConfig is the gohcl decoding target for the file.
type rawConfig struct {
	Files *FilesBlock `hcl:"files,block"`
	Jobs  *int        `hcl:"jobs,optional"`
}

// FilesBlock wraps the files block for gohcl decoding.
type FilesBlock struct {
	Include []string `hcl:"include,optional"`
	Exclude []string `hcl:"exclude,optional"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Files: Files{Include: append([]string(nil), DefaultInclude...)},
	}
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(src, path)
}

// Discover loads FileName from dir, falling back to Default when the file
// does not exist.
func Discover(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes configuration source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw rawConfig
	if diags := gohcl.DecodeBody(file.Body, buildEvalContext(os.Environ()), &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}

	cfg := Default()
	if raw.Files != nil {
		if len(raw.Files.Include) > 0 {
			cfg.Files.Include = raw.Files.Include
		}
		cfg.Files.Exclude = raw.Files.Exclude
	}
	if raw.Jobs != nil {
		cfg.Jobs = *raw.Jobs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the patterns and the job count.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	for _, p := range c.Files.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("files.include: invalid pattern %q", p)
		}
	}
	for _, p := range c.Files.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("files.exclude: invalid pattern %q", p)
		}
	}
	return nil
}

// Match reports whether the relative path rel is included and not excluded.
func (f Files) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(f.Include, rel) && !matchAny(f.Exclude, rel)
}

// Excluded reports whether rel matches an exclude pattern.
func (f Files) Excluded(rel string) bool {
	return matchAny(f.Exclude, filepath.ToSlash(rel))
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if doublestar.MatchUnvalidated(p, name) {
			return true
		}
	}
	return false
}

// buildEvalContext exposes the process environment as env.NAME and the
// concat function for composing pattern lists.
func buildEvalContext(environ []string) *hcl.EvalContext {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !hclsyntax.ValidIdentifier(name) {
			continue
		}
		vals[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vals),
		},
		Functions: map[string]function.Function{
			"concat": stdlib.ConcatFunc,
		},
	}
}
