package memsize

import (
	"fmt"

	"tabula/index"
)

// Breakdown splits an index's memory footprint into its major parts.
// Store, Columns, and Cache are measured on detached snapshots and
// approximate the live allocations; Total measures the live index and
// also covers struct overhead the parts do not attribute.
type Breakdown struct {
	Store   int64
	Columns int64
	Cache   int64
	Total   int64
}

// String renders the breakdown as fixed-width lines.
func (b Breakdown) String() string {
	return fmt.Sprintf("%-10s %12d\n%-10s %12d\n%-10s %12d\n%-10s %12d",
		"store:", b.Store,
		"columns:", b.Columns,
		"cache:", b.Cache,
		"total:", b.Total)
}

// Report measures a single-level index.
func Report(ix *index.Index) Breakdown {
	return Breakdown{
		Store:   Of(ix.Store().Snapshot()),
		Columns: Of(ix.RawKeys()),
		Cache:   cacheSize(ix.CacheSnapshot()),
		Total:   Of(ix),
	}
}

// ReportMulti measures a multi-level index.
func ReportMulti(mi *index.MultiIndex) Breakdown {
	return Breakdown{
		Store:   Of(mi.Store().Snapshot()),
		Columns: Of(mi.RawLevels()),
		Cache:   cacheSize(mi.CacheSnapshot()),
		Total:   Of(mi),
	}
}

// cacheSize reports zero for an uncached index instead of the size of a
// nil map header.
func cacheSize(snapshot map[string][]int) int64 {
	if snapshot == nil {
		return 0
	}
	return Of(snapshot)
}
