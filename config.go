package topobathy

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/maseology/mmio"
	"github.com/maseology/topobathy/grid"
	"github.com/maseology/topobathy/merge"
	"github.com/maseology/topobathy/river"
)

// Config the TOML model-preparation configuration: an ordered list of
// elevation sources with per-source merge policies, and the bathymetry
// reconstruction parameters.
type Config struct {
	EPSG       int              `toml:"epsg"`
	Geographic bool             `toml:"geographic"`
	Elevation  ElevationConfig  `toml:"elevation"`
	Bathymetry BathymetryConfig `toml:"bathymetry"`
}

// ElevationConfig the multi-source merge settings
type ElevationConfig struct {
	Nodata       float64        `toml:"nodata"`
	BufferCells  int            `toml:"buffer_cells"`
	InterpMethod string         `toml:"interp_method"`
	Sources      []SourceConfig `toml:"source"`
}

// SourceConfig one raster source and its merge policy; list order encodes
// priority
type SourceConfig struct {
	File     string   `toml:"file"`
	Rule     string   `toml:"rule"`
	Offset   float64  `toml:"offset"`
	Zmin     *float64 `toml:"zmin"`
	Zmax     *float64 `toml:"zmax"`
	Resample string   `toml:"resample"`
}

// BathymetryConfig the river bed-level reconstruction settings
type BathymetryConfig struct {
	Method         string  `toml:"method"`
	RiverUpa       float64 `toml:"river_upa"`
	SegmentLength  float64 `toml:"segment_length"`
	SmoothLength   float64 `toml:"smooth_length"`
	MinConvergence float64 `toml:"min_convergence"`
	MaxDist        float64 `toml:"max_dist"`
	BankPercentile float64 `toml:"bank_percentile"`
	AdjustEstuary  *bool   `toml:"adjust_estuary"` // nil keeps the default
	AdjustRivwth   *bool   `toml:"adjust_rivwth"`
	AdjustDem      *bool   `toml:"adjust_dem"`
}

// LoadConfig decodes and validates a TOML configuration; unknown keys are
// rejected rather than silently ignored.
func LoadConfig(fp string) (*Config, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, grid.ConfigErrorf("configuration file %s not found", fp)
	}
	var cfg Config
	cfg.Elevation.Nodata = -9999
	cfg.Elevation.InterpMethod = "linear"
	md, err := toml.DecodeFile(fp, &cfg)
	if err != nil {
		return nil, fmt.Errorf("LoadConfig %s: %w", fp, err)
	}
	if un := md.Undecoded(); len(un) > 0 {
		keys := make([]string, len(un))
		for i, k := range un {
			keys[i] = k.String()
		}
		return nil, grid.ConfigErrorf("unknown configuration key(s): %s", strings.Join(keys, ", "))
	}
	if len(cfg.Elevation.Sources) == 0 {
		return nil, grid.ConfigErrorf("no elevation sources configured")
	}
	for _, s := range cfg.Elevation.Sources {
		if s.File == "" {
			return nil, grid.ConfigErrorf("elevation source missing file")
		}
		if _, err := merge.ParseRule(s.Rule); err != nil {
			return nil, err
		}
		if s.Resample != "" {
			if _, err := grid.ParseMethod(s.Resample); err != nil {
				return nil, err
			}
		}
	}
	return &cfg, nil
}

// Params maps the bathymetry block onto reconstruction parameters, defaults
// filling unset fields
func (bc *BathymetryConfig) Params() river.Params {
	p := river.DefaultParams()
	if bc.Method != "" {
		p.Method = bc.Method
	}
	if bc.RiverUpa > 0 {
		p.RiverUpa = bc.RiverUpa
	}
	if bc.SegmentLength > 0 {
		p.SegmentLength = bc.SegmentLength
	}
	if bc.SmoothLength > 0 {
		p.SmoothLength = bc.SmoothLength
	}
	if bc.MinConvergence > 0 {
		p.MinConvergence = bc.MinConvergence
	}
	if bc.MaxDist > 0 {
		p.MaxDist = bc.MaxDist
	}
	if bc.BankPercentile > 0 {
		p.BankQ = bc.BankPercentile
	}
	if bc.AdjustEstuary != nil {
		p.AdjustEstuary = *bc.AdjustEstuary
	}
	if bc.AdjustRivwth != nil {
		p.AdjustRivwth = *bc.AdjustRivwth
	}
	if bc.AdjustDem != nil {
		p.AdjustDem = *bc.AdjustDem
	}
	return p
}

// LoadSources reads the configured source rasters (paths relative to the
// configuration file's directory) and builds the merge source list.
func (cfg *Config) LoadSources(cfgdir string) ([]merge.Source, error) {
	srcs := make([]merge.Source, 0, len(cfg.Elevation.Sources))
	for _, sc := range cfg.Elevation.Sources {
		fp := sc.File
		if !filepath.IsAbs(fp) {
			fp = filepath.Join(cfgdir, fp)
		}
		r, err := grid.ReadASCII(fp)
		if err != nil {
			return nil, err
		}
		r.GD.EPSG = cfg.EPSG
		r.GD.Geographic = cfg.Geographic

		rule, _ := merge.ParseRule(sc.Rule)
		p := merge.Policy{
			Rule:        rule,
			OffsetConst: sc.Offset,
			MinValid:    sc.Zmin,
			MaxValid:    sc.Zmax,
		}
		if sc.Resample != "" {
			m, _ := grid.ParseMethod(sc.Resample)
			p.Resample = &m
		}
		srcs = append(srcs, merge.Source{Raster: r, Policy: p})
	}
	return srcs, nil
}
