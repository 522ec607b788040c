package hashtable

import (
	"math"

	"github.com/chazu/segment/segerr"
)

// Default growth characteristics of a newly created table.
const (
	DefaultInitBucketCapacity = 4
	DefaultBucketGrowthFactor = 2
	DefaultMaxLoad            = 0.75
	DefaultTableGrowthFactor  = 2
)

// MaxCapacity is the largest bucket count a table may hold. Requests beyond it
// are reported as Memory errors before anything is allocated.
const MaxCapacity = 1 << 40

// maxBucketEntries bounds a single bucket's entry array.
const maxBucketEntries = 1 << 32

// Settings controls how a table grows. A table's settings are read-write
// through Table.Settings and are validated whenever growth consults them.
type Settings struct {
	// InitBucketCapacity is the entry capacity of a bucket on first use.
	InitBucketCapacity int

	// BucketGrowthFactor multiplies a full bucket's entry capacity.
	BucketGrowthFactor int

	// MaxLoad is the count/capacity ratio at which the table resizes.
	MaxLoad float64

	// TableGrowthFactor multiplies the bucket count on automatic resize.
	TableGrowthFactor int
}

// DefaultSettings returns the settings used by new tables.
func DefaultSettings() Settings {
	return Settings{
		InitBucketCapacity: DefaultInitBucketCapacity,
		BucketGrowthFactor: DefaultBucketGrowthFactor,
		MaxLoad:            DefaultMaxLoad,
		TableGrowthFactor:  DefaultTableGrowthFactor,
	}
}

// Validate reports a Range error for settings that cannot restore the load
// invariant or grow a bucket.
func (s Settings) Validate() error {
	const op = "hashtable.Settings"
	switch {
	case s.InitBucketCapacity < 1:
		return segerr.Newf(segerr.Range, op, "initial bucket capacity %d must be at least 1", s.InitBucketCapacity)
	case s.BucketGrowthFactor < 2:
		return segerr.Newf(segerr.Range, op, "bucket growth factor %d must be at least 2", s.BucketGrowthFactor)
	case math.IsNaN(s.MaxLoad) || math.IsInf(s.MaxLoad, 0) || s.MaxLoad <= 0:
		return segerr.Newf(segerr.Range, op, "max load %v must be a positive number", s.MaxLoad)
	case s.TableGrowthFactor < 2:
		return segerr.Newf(segerr.Range, op, "table growth factor %d must be at least 2", s.TableGrowthFactor)
	}
	return nil
}

// scale multiplies n by factor, reporting false on overflow past limit.
func scale(n, factor, limit int) (int, bool) {
	if factor != 0 && n > limit/factor {
		return 0, false
	}
	return n * factor, true
}
