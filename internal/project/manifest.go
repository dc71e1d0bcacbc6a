package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"poet/internal/diag"
	"poet/internal/emit"
	"poet/internal/names"
)

var (
	// ErrManifestParse wraps TOML and YAML decode failures.
	ErrManifestParse error = diag.PrjManifestParse
	// ErrInvalidField reports a field with a missing or unusable value.
	ErrInvalidField error = diag.PrjInvalidField
	// ErrBadReference reports a type or member reference that cannot be parsed.
	ErrBadReference error = diag.PrjBadReference
)

// DefaultOutDir is used when [render].out_dir is unset.
const DefaultOutDir = "gen"

// Manifest is a decoded poet.toml or poet.yaml.
type Manifest struct {
	// Path is the manifest file the values were read from.
	Path    string         `toml:"-" yaml:"-"`
	Format  FormatConfig   `toml:"format" yaml:"format"`
	Render  RenderConfig   `toml:"render" yaml:"render"`
	Files   []FileEntry    `toml:"file" yaml:"file"`
	OpenAPI []OpenAPIEntry `toml:"openapi" yaml:"openapi"`
}

// FormatConfig is the [format] section.
type FormatConfig struct {
	ColumnLimit int    `toml:"column_limit" yaml:"column_limit"`
	Indent      string `toml:"indent" yaml:"indent"`
	Collision   string `toml:"collision" yaml:"collision"`
}

// RenderConfig is the [render] section.
type RenderConfig struct {
	OutDir   string `toml:"out_dir" yaml:"out_dir"`
	Jobs     int    `toml:"jobs" yaml:"jobs"`
	Cache    *bool  `toml:"cache" yaml:"cache"`
	CacheURL string `toml:"cache_url" yaml:"cache_url"`
}

// FileEntry is one [[file]] table.
type FileEntry struct {
	Package string       `toml:"package" yaml:"package"`
	Name    string       `toml:"name" yaml:"name"`
	Comment string       `toml:"comment" yaml:"comment"`
	Imports []string     `toml:"imports" yaml:"imports"`
	Blocks  []BlockEntry `toml:"block" yaml:"block"`
}

// BlockEntry is one [[file.block]] table. Args bind positionally; Named
// binds %name:X directives. A block uses one or the other.
type BlockEntry struct {
	Format string              `toml:"format" yaml:"format"`
	Args   []ArgEntry          `toml:"args" yaml:"args"`
	Named  map[string]ArgEntry `toml:"named" yaml:"named"`
	Strict bool                `toml:"strict" yaml:"strict"`
}

// ArgEntry holds exactly one argument value.
type ArgEntry struct {
	Literal any     `toml:"literal" yaml:"literal"`
	String  *string `toml:"string" yaml:"string"`
	Raw     *string `toml:"raw" yaml:"raw"`
	Name    *string `toml:"name" yaml:"name"`
	Type    *string `toml:"type" yaml:"type"`
	Member  *string `toml:"member" yaml:"member"`
	Null    bool    `toml:"null" yaml:"null"`
}

// OpenAPIEntry is one [[openapi]] table: every component schema of the
// document at Path becomes a file in Package.
type OpenAPIEntry struct {
	Path    string `toml:"path" yaml:"path"`
	Package string `toml:"package" yaml:"package"`
}

// Load reads and validates a manifest. The format follows the extension:
// .yaml and .yml are YAML, anything else is TOML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w: %w", path, ErrManifestParse, err)
		}
	default:
		meta, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", path, ErrManifestParse, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: %w: unknown key %q", path, ErrInvalidField, undecoded[0].String())
		}
	}
	m.Path = path
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Root is the directory holding the manifest.
func (m *Manifest) Root() string {
	return filepath.Dir(m.Path)
}

// EmitOptions converts [format] to emitter options.
func (m *Manifest) EmitOptions() emit.Options {
	policy, _ := emit.ParsePolicy(m.Format.Collision)
	return emit.Options{
		Indent:      m.Format.Indent,
		ColumnLimit: m.Format.ColumnLimit,
		Collision:   policy,
	}
}

// OutDir resolves [render].out_dir against the manifest directory.
func (m *Manifest) OutDir() (string, error) {
	dir := strings.TrimSpace(m.Render.OutDir)
	if dir == "" {
		dir = DefaultOutDir
	}
	p, err := ResolveWithin(m.Root(), dir)
	if err != nil {
		return "", fmt.Errorf("%s: render.out_dir %w", m.Path, err)
	}
	return p, nil
}

// CacheEnabled reports [render].cache, which defaults to true.
func (m *Manifest) CacheEnabled() bool {
	return m.Render.Cache == nil || *m.Render.Cache
}

func (m *Manifest) fieldErr(field, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w: %s", m.Path, field, ErrInvalidField, fmt.Sprintf(format, args...))
}

func (m *Manifest) validate() error {
	if m.Format.ColumnLimit < 0 {
		return m.fieldErr("format.column_limit", "must be > 0, got %d", m.Format.ColumnLimit)
	}
	if strings.Trim(m.Format.Indent, " \t") != "" {
		return m.fieldErr("format.indent", "must contain only spaces or tabs, got %q", m.Format.Indent)
	}
	if _, err := emit.ParsePolicy(m.Format.Collision); err != nil {
		return m.fieldErr("format.collision", "%v", err)
	}
	if m.Render.Jobs < 0 {
		return m.fieldErr("render.jobs", "must be >= 0, got %d", m.Render.Jobs)
	}
	if len(m.Files) == 0 && len(m.OpenAPI) == 0 {
		return m.fieldErr("file", "manifest declares no [[file]] or [[openapi]] entries")
	}
	seen := make(map[string]int, len(m.Files))
	for i, f := range m.Files {
		field := fmt.Sprintf("file[%d]", i)
		if !names.IsIdentifier(f.Name) {
			return m.fieldErr(field+".name", "%q is not an identifier", f.Name)
		}
		if err := validatePackage(f.Package); err != nil {
			return m.fieldErr(field+".package", "%v", err)
		}
		key := f.Package + "." + f.Name
		if prev, dup := seen[key]; dup {
			return m.fieldErr(field, "duplicates file[%d] (%s)", prev, key)
		}
		seen[key] = i
		for j, b := range f.Blocks {
			bfield := fmt.Sprintf("%s.block[%d]", field, j)
			if b.Format == "" {
				return m.fieldErr(bfield+".format", "must not be empty")
			}
			if len(b.Args) > 0 && len(b.Named) > 0 {
				return m.fieldErr(bfield, "args and named are mutually exclusive")
			}
			for k, a := range b.Args {
				if err := a.validate(); err != nil {
					return m.fieldErr(fmt.Sprintf("%s.args[%d]", bfield, k), "%v", err)
				}
			}
			for name, a := range b.Named {
				if err := a.validate(); err != nil {
					return m.fieldErr(fmt.Sprintf("%s.named.%s", bfield, name), "%v", err)
				}
			}
		}
	}
	for i, o := range m.OpenAPI {
		field := fmt.Sprintf("openapi[%d]", i)
		if strings.TrimSpace(o.Path) == "" {
			return m.fieldErr(field+".path", "must not be empty")
		}
		if _, err := ResolveWithin(m.Root(), o.Path); err != nil {
			return m.fieldErr(field+".path", "%v", err)
		}
		if err := validatePackage(o.Package); err != nil {
			return m.fieldErr(field+".package", "%v", err)
		}
	}
	return nil
}

func validatePackage(pkg string) error {
	if pkg == "" {
		return nil
	}
	for _, seg := range strings.Split(pkg, ".") {
		if !names.IsIdentifier(seg) {
			return fmt.Errorf("segment %q of %q is not an identifier", seg, pkg)
		}
	}
	return nil
}

func (a ArgEntry) validate() error {
	set := 0
	for _, ok := range []bool{
		a.Literal != nil, a.String != nil, a.Raw != nil,
		a.Name != nil, a.Type != nil, a.Member != nil, a.Null,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of literal, string, raw, name, type, member or null must be set (got %d)", set)
	}
	return nil
}
