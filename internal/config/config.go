// Package config loads modelgraph.toml.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"modelgraph/internal/adapter"
	"modelgraph/internal/decl"
	"modelgraph/internal/known"
)

// Config is the validated configuration of one run.
type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path string
	// Dir is where package patterns are resolved from.
	Dir string

	Packages          []string
	CollapseHierarchy bool
	DateKind          known.DateKind

	Mixins   map[decl.Identity]decl.Identity
	Adapters map[decl.Identity]decl.Usage
	Formats  map[decl.Identity]string
	Known    map[decl.Identity]decl.Primitive

	Filter Filter
}

type fileConfig struct {
	Model struct {
		Packages          []string `toml:"packages"`
		CollapseHierarchy bool     `toml:"collapse_hierarchy"`
		DateKind          string   `toml:"date_kind"`
	} `toml:"model"`
	Mixins   map[string]string `toml:"mixins"`
	Adapters map[string]string `toml:"adapters"`
	Formats  map[string]string `toml:"formats"`
	Known    map[string]string `toml:"known"`
	Filter   struct {
		Include []string `toml:"include"`
		Exclude []string `toml:"exclude"`
		Ignore  []string `toml:"ignore"`
	} `toml:"filter"`
}

// ErrUnknownKey is wrapped when the file contains keys modelgraph does not read.
var ErrUnknownKey = errors.New("unknown configuration key")

// Default returns the configuration used when no file is found.
func Default(dir string) *Config {
	return &Config{
		Dir:      dir,
		Packages: []string{"./..."},
		Mixins:   map[decl.Identity]decl.Identity{},
		Adapters: map[decl.Identity]decl.Usage{},
		Formats:  map[decl.Identity]string{},
		Known:    map[decl.Identity]decl.Primitive{},
	}
}

// Load reads and validates path.
func Load(path string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return build(path, meta, &fc)
}

// Parse decodes configuration text; dir anchors package patterns.
func Parse(data, dir string) (*Config, error) {
	var fc fileConfig
	meta, err := toml.Decode(data, &fc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg, err := build("", meta, &fc)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir
	return cfg, nil
}

// Discover loads the nearest modelgraph.toml above startDir, or the defaults.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		dir, err := filepath.Abs(startDir)
		if err != nil {
			return nil, err
		}
		return Default(dir), nil
	}
	return Load(path)
}

func build(path string, meta toml.MetaData, fc *fileConfig) (*Config, error) {
	where := path
	if where == "" {
		where = "<config>"
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: %w: %s", where, ErrUnknownKey, strings.Join(keys, ", "))
	}

	cfg := Default(filepath.Dir(path))
	cfg.Path = path
	if meta.IsDefined("model", "packages") {
		cfg.Packages = fc.Model.Packages
	}
	cfg.CollapseHierarchy = fc.Model.CollapseHierarchy

	var errs []error
	dk, err := known.ParseDateKind(fc.Model.DateKind)
	if err != nil {
		errs = append(errs, fmt.Errorf("[model].date_kind: %w", err))
	}
	cfg.DateKind = dk

	for _, k := range sortedKeys(fc.Mixins) {
		target, src := decl.NewIdentity(k), decl.NewIdentity(fc.Mixins[k])
		if target == "" || src == "" {
			errs = append(errs, fmt.Errorf("[mixins]: empty identity in %q = %q", k, fc.Mixins[k]))
			continue
		}
		cfg.Mixins[target] = src
	}
	for _, k := range sortedKeys(fc.Adapters) {
		src := decl.NewIdentity(k)
		v := strings.TrimSpace(fc.Adapters[k])
		if src == "" || v == "" {
			errs = append(errs, fmt.Errorf("[adapters]: empty identity in %q = %q", k, fc.Adapters[k]))
			continue
		}
		cfg.Adapters[src] = adapter.ParseTarget(v)
	}
	for _, k := range sortedKeys(fc.Formats) {
		cfg.Formats[decl.NewIdentity(k)] = fc.Formats[k]
	}
	for _, k := range sortedKeys(fc.Known) {
		p, ok := decl.ParsePrimitive(fc.Known[k])
		if !ok {
			errs = append(errs, fmt.Errorf("[known].%q: invalid kind %q", k, fc.Known[k]))
			continue
		}
		cfg.Known[decl.NewIdentity(k)] = p
	}

	filter, err := NewFilter(fc.Filter.Include, fc.Filter.Exclude, fc.Filter.Ignore)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Filter = filter

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	return cfg, nil
}

// KnownOptions returns the known-type table options this config implies.
// Every mixin target is evicted.
func (c *Config) KnownOptions() known.Options {
	evict := make([]decl.Identity, 0, len(c.Mixins))
	for target := range c.Mixins {
		evict = append(evict, target)
	}
	sort.Slice(evict, func(i, j int) bool { return evict[i] < evict[j] })
	return known.Options{
		Extra:        c.Known,
		Formats:      c.Formats,
		DateOverride: c.DateKind,
		Evict:        evict,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
