// Package manifest handles segment.toml runtime configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"

	"github.com/chazu/segment/hashtable"
)

var log = commonlog.GetLogger("segment.manifest")

// FileName is the name of the configuration file looked up by Load and FindAndLoad.
const FileName = "segment.toml"

// DefaultSymbolTableCapacity is the initial bucket count of a runtime's symbol table.
const DefaultSymbolTableCapacity = 4096

// Manifest represents a segment.toml configuration.
type Manifest struct {
	SymbolTable SymbolTable `toml:"symbol-table"`

	// Dir is the directory containing the segment.toml file (set at load time).
	Dir string `toml:"-"`
}

// SymbolTable configures the hash table backing a runtime's symbol table.
type SymbolTable struct {
	InitialCapacity int     `toml:"initial-capacity"`
	BucketCapacity  int     `toml:"bucket-capacity"`
	BucketGrowth    int     `toml:"bucket-growth"`
	MaxLoad         float64 `toml:"max-load"`
	TableGrowth     int     `toml:"table-growth"`
}

// DefaultSymbolTable returns the built-in symbol table configuration.
func DefaultSymbolTable() SymbolTable {
	s := hashtable.DefaultSettings()
	return SymbolTable{
		InitialCapacity: DefaultSymbolTableCapacity,
		BucketCapacity:  s.InitBucketCapacity,
		BucketGrowth:    s.BucketGrowthFactor,
		MaxLoad:         s.MaxLoad,
		TableGrowth:     s.TableGrowthFactor,
	}
}

// Default returns a manifest holding only built-in defaults.
func Default() *Manifest {
	return &Manifest{SymbolTable: DefaultSymbolTable()}
}

// Settings converts the configuration into hash table growth settings.
func (s SymbolTable) Settings() hashtable.Settings {
	return hashtable.Settings{
		InitBucketCapacity: s.BucketCapacity,
		BucketGrowthFactor: s.BucketGrowth,
		MaxLoad:            s.MaxLoad,
		TableGrowthFactor:  s.TableGrowth,
	}
}

// Validate reports configuration that a symbol table could not be built from.
func (s SymbolTable) Validate() error {
	if s.InitialCapacity < 1 {
		return fmt.Errorf("symbol-table initial-capacity %d must be at least 1", s.InitialCapacity)
	}
	if err := s.Settings().Validate(); err != nil {
		return fmt.Errorf("symbol-table: %w", err)
	}
	return nil
}

// Load parses a segment.toml file from the given directory. Keys missing from
// the file keep their default values.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := m.SymbolTable.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	log.Debugf("loaded %s", path)
	return m, nil
}

// FindAndLoad walks up from startDir to find a segment.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
