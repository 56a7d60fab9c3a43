package grid

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// ReadASCII imports an ESRI ASCII grid. The reference system is not carried
// by the format; callers set EPSG/Geographic on the returned definition.
func ReadASCII(fp string) (*Real, error) {
	a, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadASCII %s: %v", fp, err)
	}
	if len(a) < 6 {
		return nil, fmt.Errorf("ReadASCII %s: incomplete header", fp)
	}

	isHdr := map[string]bool{
		"ncols": true, "nrows": true, "cellsize": true, "nodata_value": true,
		"xllcorner": true, "yllcorner": true, "xllcenter": true, "yllcenter": true,
	}
	hdr := map[string]float64{}
	nhdr := 0
	for _, ln := range a {
		f := strings.Fields(ln)
		if len(f) != 2 || !isHdr[strings.ToLower(f[0])] {
			break
		}
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return nil, fmt.Errorf("ReadASCII %s: bad header value %q", fp, ln)
		}
		hdr[strings.ToLower(f[0])] = v
		nhdr++
	}
	req := []string{"ncols", "nrows", "cellsize"}
	for _, k := range req {
		if _, ok := hdr[k]; !ok {
			return nil, fmt.Errorf("ReadASCII %s: missing header key %s", fp, k)
		}
	}
	nc, nr, cs := int(hdr["ncols"]), int(hdr["nrows"]), hdr["cellsize"]
	xll, yll := hdr["xllcorner"], hdr["yllcorner"]
	if x, ok := hdr["xllcenter"]; ok {
		xll = x - cs/2
	}
	if y, ok := hdr["yllcenter"]; ok {
		yll = y - cs/2
	}
	nodata := -9999.
	if v, ok := hdr["nodata_value"]; ok {
		nodata = v
	}

	gd := &Definition{
		Nx: nc, Ny: nr,
		Xul: xll, Yul: yll + float64(nr)*cs,
		Dx: cs, Dy: -cs,
	}
	r := NewReal(gd, nodata)
	i := 0
	for _, ln := range a[nhdr:] {
		for _, f := range strings.Fields(ln) {
			if i >= gd.Ncells() {
				return nil, fmt.Errorf("ReadASCII %s: too many values", fp)
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("ReadASCII %s: %v", fp, err)
			}
			r.Vals[i] = v
			i++
		}
	}
	if i != gd.Ncells() {
		return nil, fmt.Errorf("ReadASCII %s: read %d of %d values", fp, i, gd.Ncells())
	}
	return r, nil
}

// WriteASCII exports the raster as an ESRI ASCII grid
func (r *Real) WriteASCII(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("WriteASCII: %v", err)
	}
	defer f.Close()
	gd := r.GD
	fmt.Fprintf(f, "ncols %d\nnrows %d\nxllcorner %f\nyllcorner %f\ncellsize %f\nNODATA_value %f\n",
		gd.Nx, gd.Ny, gd.Xul, gd.Yul+float64(gd.Ny)*gd.Dy, gd.Dx, r.Nodata)
	for row := 0; row < gd.Ny; row++ {
		for col := 0; col < gd.Nx; col++ {
			if col > 0 {
				fmt.Fprint(f, " ")
			}
			fmt.Fprintf(f, "%g", r.Value(row, col))
		}
		fmt.Fprintln(f)
	}
	return nil
}
