package main

/*
	topobathy multi-source elevation merge

	this example reads an ordered set of elevation rasters listed in a TOML
	configuration, fuses them onto the first source's grid and writes the
	merged topobathy out as an ESRI ASCII grid
*/

import (
	"log"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
	"github.com/maseology/mmaths/slice"
	"github.com/maseology/mmio"
	"github.com/maseology/topobathy"
)

const (
	cfgfp = "topobathy.toml"
	outfp = "merged_elevation.asc"
)

func main() {
	tt := mmio.NewTimer()
	lg := clog.NewWithOptions(os.Stderr, clog.Options{ReportTimestamp: true, Prefix: "merge"})

	cfg, err := topobathy.LoadConfig(cfgfp)
	if err != nil {
		log.Fatalln(err)
	}
	srcs, err := cfg.LoadSources(filepath.Dir(cfgfp))
	if err != nil {
		log.Fatalln(err)
	}
	tt.Lap("sources loaded")

	d := topobathy.NewDomain(srcs[0].Raster.GD, lg)
	if err := d.BuildElevation(srcs, cfg.Elevation.BufferCells, cfg.Elevation.InterpMethod); err != nil {
		log.Fatalln(err)
	}

	vv := make([]float64, 0, d.GD.Ncells())
	for i, v := range d.Elev.Vals {
		if d.Elev.Valid(i) {
			vv = append(vv, v)
		}
	}
	lg.Info("merged", "ncells", d.GD.Ncells(), "nvalid", len(vv), "median", slice.Median(vv))

	if err := d.Elev.WriteASCII(outfp); err != nil {
		log.Fatalln(err)
	}
	tt.Lap("written to " + outfp)
}
