package topobathy

import (
	"github.com/maseology/mmio"
	"github.com/maseology/topobathy/grid"
	"github.com/maseology/topobathy/river"
)

// BuildBathymetry reconstructs per-segment bed levels from the fused
// elevation and the flow network, committing the segment table and channel
// mask. A nil upa derives the contributing area from the network itself.
func (d *Domain) BuildBathymetry(upa *grid.Real, o river.Options) error {
	if d.Elev == nil {
		return grid.ConfigErrorf("no elevation raster; run BuildElevation first")
	}
	if d.Flw == nil {
		return grid.ConfigErrorf("no flow-direction network set")
	}
	if upa == nil {
		upa = d.Flw.Uparea()
	}
	if o.Logger == nil {
		o.Logger = d.lg
	}
	tt := mmio.NewTimer()
	segs, rivmsk, err := river.ReconstructZb(d.Elev, upa, d.Flw, o)
	if err != nil {
		return err
	}
	d.Segs, d.RivMask = segs, rivmsk
	tt.Lap("river bathymetry reconstruction complete")
	return nil
}

// BurnBathymetry writes the reconstructed bed levels into the owned
// elevation raster, repairing downstream connectivity.
func (d *Domain) BurnBathymetry(adjustDem bool) error {
	if d.Segs == nil || d.RivMask == nil {
		return grid.ConfigErrorf("no bathymetry to burn; run BuildBathymetry first")
	}
	d.Elev = river.Burn(d.Segs, d.Elev, d.RivMask, d.Flw, adjustDem, d.lg)
	return nil
}
