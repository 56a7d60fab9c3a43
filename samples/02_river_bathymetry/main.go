package main

/*
	topobathy river bathymetry reconstruction

	this example imports a fused elevation grid and its D8 flow-direction
	network, reconstructs river bed elevations segment-by-segment and burns
	them into the elevation, writing the bathymetry-corrected grid out as an
	ESRI ASCII grid
*/

import (
	"log"
	"os"
	"strconv"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/maseology/mmio"
	"github.com/maseology/topobathy"
	"github.com/maseology/topobathy/grid"
	"github.com/maseology/topobathy/river"
)

const (
	cfgfp = "topobathy.toml"
	elvfp = "merged_elevation.asc"
	dsfp  = "flowdir_downslope.txt" // one downslope cell ID per line, -1 at outlets
	outfp = "bathymetry_elevation.asc"
)

func main() {
	tt := mmio.NewTimer()
	lg := clog.NewWithOptions(os.Stderr, clog.Options{ReportTimestamp: true, Prefix: "bathymetry"})

	cfg, err := topobathy.LoadConfig(cfgfp)
	if err != nil {
		log.Fatalln(err)
	}
	elv, err := grid.ReadASCII(elvfp)
	if err != nil {
		log.Fatalln(err)
	}
	elv.GD.EPSG = cfg.EPSG
	elv.GD.Geographic = cfg.Geographic

	d := topobathy.NewDomain(elv.GD, lg)
	d.Elev = elv
	if err := d.SetFlowNetwork(readDownslope(dsfp)); err != nil {
		log.Fatalln(err)
	}
	tt.Lap("grids loaded")

	p := cfg.Bathymetry.Params()
	if err := d.BuildBathymetry(nil, river.Options{Params: &p}); err != nil {
		log.Fatalln(err)
	}
	lg.Info("reconstructed", "nsegments", len(d.Segs))

	if err := d.BurnBathymetry(p.AdjustDem); err != nil {
		log.Fatalln(err)
	}
	if err := d.Elev.WriteASCII(outfp); err != nil {
		log.Fatalln(err)
	}
	tt.Lap("written to " + outfp)
}

func readDownslope(fp string) []int {
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		log.Fatalln(err)
	}
	ds := make([]int, 0, len(lns))
	for _, ln := range lns {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		i, err := strconv.Atoi(ln)
		if err != nil {
			log.Fatalln(err)
		}
		ds = append(ds, i)
	}
	return ds
}
