package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rhor/internal/rhor"
)

// Series selects what PlotTable draws.
type Series int

const (
	SeriesEnergy Series = iota
	SeriesArealDensity
)

// PlotTable draws one column of the table against sample index, which
// runs from the smallest Rcm to the inner radius.
func PlotTable(samples []rhor.Sample, series Series, width, height int) string {
	if len(samples) == 0 {
		return Subtle.Render("empty table")
	}
	data := make([]float64, len(samples))
	unit := MeV
	name := "exit energy"
	if series == SeriesArealDensity {
		unit = MgPerCm2
		name = "areal density"
	}
	for i, s := range samples {
		if series == SeriesArealDensity {
			data[i] = s.RhoR * unit.Scale
		} else {
			data[i] = s.Energy * unit.Scale
		}
	}

	caption := fmt.Sprintf("%s (%s), Rcm %.1f → %.1f µm",
		name, unit.Name, samples[0].Rcm*Micron.Scale, samples[len(samples)-1].Rcm*Micron.Scale)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
