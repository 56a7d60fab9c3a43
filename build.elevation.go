package topobathy

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/maseology/topobathy/merge"
)

// BuildElevation folds the ordered source list onto the domain grid and
// commits the fused raster. Earlier sources take precedence under the first
// rule; sources without coverage are skipped with a warning.
func (d *Domain) BuildElevation(srcs []merge.Source, bufferCells int, interpMethod string) error {
	tt := mmio.NewTimer()

	uiprogress.Start()
	bar := uiprogress.AddBar(len(srcs)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("merging %d sources", len(srcs))
	})

	elv, err := merge.MergeMulti(srcs, merge.Options{
		Like:         d.GD,
		BufferCells:  bufferCells,
		InterpMethod: interpMethod,
		Logger:       d.lg,
		Progress:     func(done, total int) { bar.Set(done) },
	})
	uiprogress.Stop()
	if err != nil {
		return err
	}
	d.Elev = elv
	tt.Lap("elevation merge complete")
	return nil
}

// BuildRoughness fuses roughness sources the same way and commits the result
func (d *Domain) BuildRoughness(srcs []merge.Source) error {
	man, err := merge.MergeMulti(srcs, merge.Options{Like: d.GD, Logger: d.lg})
	if err != nil {
		return err
	}
	d.Rough = man
	return nil
}
