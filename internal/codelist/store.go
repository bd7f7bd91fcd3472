// Package codelist implements the chain-of-lookup resolution of internal
// classifier values to standardized codes (units of measure, payment means,
// tax categories, exemption reasons).
//
// Code lists are read-only after construction; a Store must not be mutated
// concurrently with a resolution attempt.
package codelist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Identifiers of the standard KOSIT code lists.
const (
	ListUOMRec20     = "urn:xoev-de:kosit:codeliste:rec20_3"
	ListUOMRec21     = "urn:xoev-de:kosit:codeliste:rec21_3"
	ListPaymentMeans = "urn:xoev-de:xrechnung:codeliste:untdid.4461_3"
	ListTaxCategory  = "urn:xoev-de:kosit:codeliste:untdid.5305_3"
	ListVATExemption = "urn:xoev-de:kosit:codeliste:vatex_1"
)

// Store exposes read-only code-list lookups.
type Store interface {
	// CodesFor returns the standardized codes mapped to a classifier value,
	// in the order they were registered.
	CodesFor(list, kind, value string) []string

	// NamesFor is the reverse lookup: classifier values mapped to a code.
	NamesFor(list, kind, code string) []string

	// DefaultCode returns the configured default code of a list, or "".
	DefaultCode(list string) string
}

type entryKey struct {
	list, kind, value string
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	codes    map[entryKey][]string
	names    map[entryKey][]string
	defaults map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes:    make(map[entryKey][]string),
		names:    make(map[entryKey][]string),
		defaults: make(map[string]string),
	}
}

// Add registers a classifier value → code mapping on a list.
func (s *MemoryStore) Add(list, kind, value, code string) {
	k := entryKey{list, kind, value}
	s.codes[k] = append(s.codes[k], code)
	r := entryKey{list, kind, code}
	s.names[r] = append(s.names[r], value)
}

// SetDefault sets the default code of a list.
func (s *MemoryStore) SetDefault(list, code string) {
	s.defaults[list] = code
}

// CodesFor implements Store.
func (s *MemoryStore) CodesFor(list, kind, value string) []string {
	return s.codes[entryKey{list, kind, value}]
}

// NamesFor implements Store.
func (s *MemoryStore) NamesFor(list, kind, code string) []string {
	return s.names[entryKey{list, kind, code}]
}

// DefaultCode implements Store.
func (s *MemoryStore) DefaultCode(list string) string {
	return s.defaults[list]
}

// listFile is the on-disk representation of one code list.
type listFile struct {
	List    string `json:"list" yaml:"list"`
	Default string `json:"default" yaml:"default"`
	Entries []struct {
		Code  string `json:"code" yaml:"code"`
		Kind  string `json:"kind" yaml:"kind"`
		Value string `json:"value" yaml:"value"`
	} `json:"entries" yaml:"entries"`
}

// LoadFile merges one code-list file (.yaml, .yml or .json) into the store.
func (s *MemoryStore) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f listFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".json":
		err = gojson.Unmarshal(data, &f)
	default:
		return fmt.Errorf("unsupported code list format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parse code list %s: %w", path, err)
	}
	if f.List == "" {
		return fmt.Errorf("code list %s: missing list identifier", path)
	}

	for _, e := range f.Entries {
		s.Add(f.List, e.Kind, e.Value, e.Code)
	}
	if f.Default != "" {
		s.SetDefault(f.List, f.Default)
	}
	return nil
}

// LoadDir merges every code-list file in a directory into the store.
func (s *MemoryStore) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			if err := s.LoadFile(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
