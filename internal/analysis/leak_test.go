package analysis_test

import (
	"testing"

	"github.com/san-kum/rhor/internal/analysis"
	"go.uber.org/goleak"
)

func TestNewLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	widths := map[analysis.Param]float64{
		analysis.FillPressure:   1,
		analysis.ShellThickness: 5e-4,
	}
	if _, err := analysis.New(shot(), widths, analysis.WithStoppingModel(linearStopping)); err != nil {
		t.Fatalf("engine: %v", err)
	}

	// A failing build must still wait for its siblings.
	widths[analysis.InnerRadius] = 1
	if _, err := analysis.New(shot(), widths, analysis.WithStoppingModel(linearStopping)); err == nil {
		t.Fatal("expected an oversized uncertainty error")
	}
}
