package vm

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/segment/hashtable"
	"github.com/chazu/segment/manifest"
)

var log = commonlog.GetLogger("segment.vm")

// classTableCapacity is the initial bucket count of the class registry.
const classTableCapacity = 64

// Runtime owns the bootstrap objects, the symbol table and the class registry.
// Every operation that needs them goes through a Runtime; independent
// runtimes share nothing. A Runtime is not safe for concurrent use.
type Runtime struct {
	id      uuid.UUID
	boot    Bootstrap
	symbols *SymbolTable
	classes *hashtable.Table[string, Object]
}

// NewRuntime creates and bootstraps a runtime whose symbol table is
// configured from the SEG_SYMTABLE_* environment variables.
func NewRuntime() (*Runtime, error) {
	return NewRuntimeWithConfig(manifest.SymbolTableFromEnv())
}

// NewRuntimeWithConfig creates and bootstraps a runtime with an explicit
// symbol table configuration.
func NewRuntimeWithConfig(cfg manifest.SymbolTable) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("runtime configuration: %w", err)
	}

	rt := &Runtime{id: uuid.New()}

	var err error
	if rt.symbols, err = newSymbolTable(&rt.boot, cfg); err != nil {
		return nil, fmt.Errorf("creating symbol table: %w", err)
	}
	if rt.classes, err = hashtable.NewStringTable[Object](classTableCapacity); err != nil {
		return nil, fmt.Errorf("creating class table: %w", err)
	}
	if err := rt.bootstrap(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	log.Infof("runtime %s bootstrapped with %d classes and %d symbols",
		rt.id, rt.classes.Count(), rt.symbols.Count())
	return rt, nil
}

// ID returns the identifier of this runtime.
func (rt *Runtime) ID() uuid.UUID {
	return rt.id
}

// Bootstrap returns the well-known classes and singletons.
func (rt *Runtime) Bootstrap() Bootstrap {
	return rt.boot
}

// Symbols returns the runtime's symbol table.
func (rt *Runtime) Symbols() *SymbolTable {
	return rt.symbols
}

// None returns the canonical none instance.
func (rt *Runtime) None() Object {
	return rt.boot.None
}
