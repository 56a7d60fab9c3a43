// Package merge fuses heterogeneous rasters onto a common destination grid:
// a pairwise engine with configurable combination rules and seam smoothing,
// a multi-source fold, and a topobathy variant for elevation data.
package merge

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/maseology/topobathy/grid"
	"github.com/paulmach/orb"
)

// Rule how valid cells of an incoming raster combine with the accumulator
type Rule string

const (
	First Rule = "first" // use incoming only where the base is no-data
	Last  Rule = "last"  // use incoming wherever it is valid
	Mean  Rule = "mean"  // average where both valid, incoming where base is no-data
	MaxR  Rule = "max"   // cell-wise maximum of valid values
	MinR  Rule = "min"   // cell-wise minimum of valid values
)

// ParseRule validates a combination-rule name ("" defaults to first)
func ParseRule(s string) (Rule, error) {
	switch Rule(s) {
	case First, Last, Mean, MaxR, MinR:
		return Rule(s), nil
	case "":
		return First, nil
	}
	return First, grid.ConfigErrorf("unknown merge rule %q", s)
}

// Policy per-source merge behaviour. Offsets and validity filters apply to
// the incoming raster before combination, in fixed order: offset, then value
// range, then region polygons — so range thresholds are evaluated in the
// destination vertical datum.
type Policy struct {
	Rule        Rule
	Offset      *grid.Real    // spatially varying vertical datum shift
	OffsetConst float64       // uniform shift, applied when Offset is nil
	MinValid    *float64      // values below become no-data (after offset)
	MaxValid    *float64      // values above become no-data (after offset)
	ValidRegion []orb.Polygon // cells outside become no-data
	Resample    *grid.Method  // nil: choose from relative resolution
}

// Source one raster with its merge policy
type Source struct {
	Raster *grid.Real
	Policy Policy
}

// Options per-call settings shared by all sources of a merge
type Options struct {
	Like         *grid.Definition // destination grid; nil: first source's grid
	BufferCells  int              // seam smoothing width
	InterpMethod string           // seam interpolation: linear or nearest
	Logger       *log.Logger
	Progress     func(done, total int)
}

func ensureLogger(lg *log.Logger) *log.Logger {
	if lg == nil {
		return log.New(io.Discard)
	}
	return lg
}
