package manifest

import (
	"os"
	"strconv"

	"fortio.org/safecast"
)

// Environment variables that override the symbol table configuration.
const (
	EnvInitCap      = "SEG_SYMTABLE_INIT_CAP"
	EnvBucketCap    = "SEG_SYMTABLE_BUCKET_CAP"
	EnvBucketGrowth = "SEG_SYMTABLE_BUCKET_GROWTH"
	EnvMaxLoad      = "SEG_SYMTABLE_MAX_LOAD"
	EnvGrowth       = "SEG_SYMTABLE_GROWTH"
)

// LookupFunc reports the value of an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// SymbolTableFromEnv returns the default configuration overridden by the
// process environment.
func SymbolTableFromEnv() SymbolTable {
	s := DefaultSymbolTable()
	s.ApplyEnv(os.LookupEnv)
	return s
}

// ApplyEnv overrides fields from the environment. Values that do not parse or
// fall outside their valid range are logged and ignored.
func (s *SymbolTable) ApplyEnv(lookup LookupFunc) {
	envInt(lookup, EnvInitCap, 1, &s.InitialCapacity)
	envInt(lookup, EnvBucketCap, 1, &s.BucketCapacity)
	envInt(lookup, EnvBucketGrowth, 2, &s.BucketGrowth)
	envInt(lookup, EnvGrowth, 2, &s.TableGrowth)

	if raw, ok := lookup(EnvMaxLoad); ok {
		v, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			log.Warningf("ignoring %s=%q: %v", EnvMaxLoad, raw, err)
		case !(v > 0) || v > 1e9:
			log.Warningf("ignoring %s=%q: must be a positive number", EnvMaxLoad, raw)
		default:
			s.MaxLoad = v
		}
	}
}

func envInt(lookup LookupFunc, key string, min int, dst *int) {
	raw, ok := lookup(key)
	if !ok {
		return
	}

	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		log.Warningf("ignoring %s=%q: %v", key, raw, err)
		return
	}
	v, err := safecast.Conv[int](u)
	if err != nil {
		log.Warningf("ignoring %s=%q: %v", key, raw, err)
		return
	}
	if v < min {
		log.Warningf("ignoring %s=%q: must be at least %d", key, raw, min)
		return
	}
	*dst = v
}
