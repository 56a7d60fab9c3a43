// Package topobathy prepares the physical input grids for a 2D hydrodynamic
// flood model: it fuses heterogeneous elevation/roughness rasters into one
// internally-consistent grid and reconstructs a hydraulically-plausible
// river-bed elevation where the source elevation only samples the water
// surface.
package topobathy

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/maseology/topobathy/flownet"
	"github.com/maseology/topobathy/grid"
	"github.com/maseology/topobathy/river"
)

// Domain owns the working state of one model build: the destination grid,
// the fused rasters, the flow network and the river segment table. Callers
// commit results; no operation mutates shared state outside the Domain.
type Domain struct {
	GD      *grid.Definition
	Elev    *grid.Real // fused elevation
	Rough   *grid.Real // fused roughness (optional)
	Flw     *flownet.Network
	Segs    river.Segments
	RivMask []bool
	lg      *log.Logger
}

// NewDomain builds an empty domain on the given destination grid; a nil
// logger discards diagnostics.
func NewDomain(gd *grid.Definition, lg *log.Logger) *Domain {
	if lg == nil {
		lg = log.New(io.Discard)
	}
	return &Domain{GD: gd, lg: lg}
}

// SetFlowNetwork attaches the (externally derived) flow-direction network
func (d *Domain) SetFlowNetwork(ds []int) error {
	flw, err := flownet.New(d.GD, ds)
	if err != nil {
		return err
	}
	d.Flw = flw
	return nil
}
