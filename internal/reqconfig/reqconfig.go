// Package reqconfig loads and saves the per-repository requirement
// configuration: a versioned TOML file under <root>/.req/config.toml,
// with an environment-injectable loading seam (LoadWithEnv) so tests
// never depend on the process environment.
package reqconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const defaultDigits = 3

// FileName is the path, relative to the requirements root, where the
// configuration is stored.
const FileName = ".req/config.toml"

// KindMetadata describes an allowed requirement kind beyond its bare
// identifier.
type KindMetadata struct {
	Description string
}

// Config is the in-memory, already-normalized requirement configuration.
type Config struct {
	// AllowedKinds is the ordered list of permitted KIND identifiers. An
	// empty list means all kinds are allowed.
	AllowedKinds []string

	// KindMeta holds optional metadata keyed by KIND.
	KindMeta map[string]KindMetadata

	// Digits is the zero-padded display width for HRID ids.
	Digits int

	// AllowUnrecognised permits markdown files whose name is not a valid
	// HRID, or that fail to parse, to be skipped instead of failing a load.
	AllowUnrecognised bool

	// SubfoldersAreNamespaces selects path-mode layout: subfolders encode
	// the HRID namespace and KIND, rather than the full HRID living in a
	// single filename.
	SubfoldersAreNamespaces bool
}

// Default returns the configuration used for a freshly initialized
// requirements root.
func Default() Config {
	return Config{
		Digits:   defaultDigits,
		KindMeta: map[string]KindMetadata{},
	}
}

// IsKindAllowed reports whether kind may be used. An empty AllowedKinds
// list allows every kind.
func (c Config) IsKindAllowed(kind string) bool {
	if len(c.AllowedKinds) == 0 {
		return true
	}
	for _, k := range c.AllowedKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// MetadataForKind returns the metadata registered for kind, if any.
func (c Config) MetadataForKind(kind string) (KindMetadata, bool) {
	m, ok := c.KindMeta[kind]
	return m, ok
}

// versionedFile is the on-disk tagged-version envelope. Only version "1"
// is recognized. AllowedKinds entries are either a bare string ("USR")
// or an inline table ({kind = "USR", description = "..."}); since that
// union cannot be expressed with struct tags, entries are decoded as
// interface{} values and converted by decodeKindEntry.
type versionedFile struct {
	Version           string        `toml:"_version"`
	AllowedKinds      []interface{} `toml:"allowed_kinds,omitempty"`
	Digits            int           `toml:"digits"`
	AllowUnrecognised bool          `toml:"allow_unrecognised"`
	// AllowInvalid is deprecated and no longer consulted; it is accepted
	// on read for backward compatibility and never written back.
	AllowInvalid            bool `toml:"allow_invalid,omitempty"`
	SubfoldersAreNamespaces bool `toml:"subfolders_are_namespaces"`
}

func decodeKindEntry(value interface{}) (kind, description string, err error) {
	switch v := value.(type) {
	case string:
		return v, "", nil
	case map[string]interface{}:
		kind, _ := v["kind"].(string)
		if kind == "" {
			return "", "", fmt.Errorf("reqconfig: allowed_kinds table entry missing \"kind\"")
		}
		desc, _ := v["description"].(string)
		return kind, desc, nil
	default:
		return "", "", fmt.Errorf("reqconfig: unsupported allowed_kinds entry %T", value)
	}
}

func toDomain(v versionedFile) (Config, error) {
	kinds := make([]string, 0, len(v.AllowedKinds))
	meta := map[string]KindMetadata{}
	for _, entry := range v.AllowedKinds {
		kind, desc, err := decodeKindEntry(entry)
		if err != nil {
			return Config{}, err
		}
		kinds = append(kinds, kind)
		if desc != "" {
			meta[kind] = KindMetadata{Description: desc}
		}
	}
	digits := v.Digits
	if digits == 0 {
		digits = defaultDigits
	}
	return Config{
		AllowedKinds:            kinds,
		KindMeta:                meta,
		Digits:                  digits,
		AllowUnrecognised:       v.AllowUnrecognised,
		SubfoldersAreNamespaces: v.SubfoldersAreNamespaces,
	}, nil
}

func fromDomain(c Config) versionedFile {
	entries := make([]interface{}, 0, len(c.AllowedKinds))
	for _, kind := range c.AllowedKinds {
		if meta, ok := c.KindMeta[kind]; ok && meta.Description != "" {
			entries = append(entries, map[string]string{"kind": kind, "description": meta.Description})
			continue
		}
		entries = append(entries, kind)
	}

	digits := c.Digits
	if digits == 0 {
		digits = defaultDigits
	}

	return versionedFile{
		Version:                 "1",
		AllowedKinds:            entries,
		Digits:                  digits,
		AllowUnrecognised:       c.AllowUnrecognised,
		SubfoldersAreNamespaces: c.SubfoldersAreNamespaces,
	}
}

// Load reads and parses the configuration file at path. A missing file
// is not an error; it yields Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reqconfig: read config file: %w", err)
	}

	var v versionedFile
	if err := toml.Unmarshal(data, &v); err != nil {
		return Config{}, fmt.Errorf("reqconfig: parse config file: %w", err)
	}
	if v.Version != "" && v.Version != "1" {
		return Config{}, fmt.Errorf("reqconfig: unrecognized config version %q", v.Version)
	}

	return toDomain(v)
}

// LoadFromRoot loads the configuration for root using the real
// environment.
func LoadFromRoot(root string) (Config, error) {
	return LoadWithEnv(root, os.Getenv)
}

// LoadWithEnv loads the configuration for root using the provided
// environment lookup function. This allows tests to provide isolated
// environment values. REQCTL_CONFIG, when set, overrides the default
// root/.req/config.toml location.
func LoadWithEnv(root string, getenv func(string) string) (Config, error) {
	if override := getenv("REQCTL_CONFIG"); override != "" {
		return Load(override)
	}
	return Load(filepath.Join(root, FileName))
}

// Save serializes cfg and writes it to path, creating parent directories
// as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("reqconfig: create config directory: %w", err)
	}

	v := fromDomain(cfg)
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("reqconfig: serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("reqconfig: write config file: %w", err)
	}
	return nil
}

// SaveToRoot serializes cfg to root/.req/config.toml.
func SaveToRoot(root string, cfg Config) error {
	return Save(filepath.Join(root, FileName), cfg)
}

// AddKind adds kind (normalized to uppercase) to the allowed list. It
// returns false if the kind was already present.
func (c *Config) AddKind(kind string) bool {
	kind = upper(kind)
	for _, k := range c.AllowedKinds {
		if k == kind {
			return false
		}
	}
	c.AllowedKinds = append(c.AllowedKinds, kind)
	return true
}

// RemoveKind removes kind (normalized to uppercase) from the allowed
// list and drops any metadata for it. It returns false if the kind was
// not present.
func (c *Config) RemoveKind(kind string) bool {
	kind = upper(kind)
	for i, k := range c.AllowedKinds {
		if k == kind {
			c.AllowedKinds = append(c.AllowedKinds[:i], c.AllowedKinds[i+1:]...)
			delete(c.KindMeta, kind)
			return true
		}
	}
	return false
}

// SetKindDescription sets or clears the description metadata for kind.
// An empty description removes the metadata entry.
func (c *Config) SetKindDescription(kind, description string) {
	kind = upper(kind)
	description = trimSpace(description)
	if c.KindMeta == nil {
		c.KindMeta = map[string]KindMetadata{}
	}
	if description == "" {
		delete(c.KindMeta, kind)
		return
	}
	c.KindMeta[kind] = KindMetadata{Description: description}
}

// SortedKinds returns AllowedKinds joined with kinds carrying metadata
// but not already present, in a stable order: declared order first, then
// metadata-only kinds sorted alphabetically.
func (c Config) SortedKinds() []string {
	seen := make(map[string]bool, len(c.AllowedKinds))
	out := append([]string(nil), c.AllowedKinds...)
	for _, k := range out {
		seen[k] = true
	}
	var extra []string
	for k := range c.KindMeta {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func upper(s string) string {
	return strings.ToUpper(s)
}

func trimSpace(s string) string {
	return strings.TrimSpace(s)
}
