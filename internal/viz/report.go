package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rhor/internal/analysis"
	"github.com/san-kum/rhor/internal/rhor"
)

const barWidth = 24

// Unit scales a quantity for display.
type Unit struct {
	Name  string
	Scale float64
}

var (
	MgPerCm2 = Unit{"mg/cm²", 1e3}
	Micron   = Unit{"µm", 1e4}
	MeV      = Unit{"MeV", 1}
)

func formatQuantity(q rhor.Quantity, u Unit) string {
	if q.IsNaN() {
		return Warning.Render("not computable")
	}
	return MetricValue.Render(q.Scale(u.Scale).String()) + " " + MetricLabel.Render(u.Name)
}

// RenderResult formats one inference with its error budget.
func RenderResult(energy, sigma float64, res analysis.Result) string {
	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("E = %.3f ± %.3f MeV", energy, sigma)))
	b.WriteString("\n")
	b.WriteString(MetricLabel.Render("ρR   ") + formatQuantity(res.RhoR, MgPerCm2) + "\n")
	b.WriteString(MetricLabel.Render("Rcm  ") + formatQuantity(res.Rcm, Micron) + "\n")

	if len(res.Skipped) > 0 {
		names := make([]string, len(res.Skipped))
		for i, p := range res.Skipped {
			names[i] = string(p)
		}
		b.WriteString(Warning.Render("skipped: "+strings.Join(names, ", ")) + "\n")
	}
	if res.MeasurementSkipped {
		b.WriteString(Warning.Render("measurement term skipped: E ± σ leaves the table") + "\n")
	}

	if len(res.RhoRBreakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderBreakdown("ρR budget", res.RhoRBreakdown, res.RhoR.Upper, MgPerCm2))
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderBreakdown lists each nonzero contribution with its share of the
// total variance.
func RenderBreakdown(title string, breakdown []analysis.Contribution, total float64, u Unit) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")

	variance := total * total
	shown := 0
	for _, c := range breakdown {
		if c.Sigma == 0 {
			continue
		}
		share := 0.0
		if variance > 0 {
			share = c.Sigma * c.Sigma / variance
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			MetricLabel.Width(22).Render(string(c.Param)),
			MetricValue.Width(12).Render(fmt.Sprintf("%.3g", c.Sigma*u.Scale)),
			Bar(share, barWidth),
			Subtle.Render(fmt.Sprintf(" %5.1f%%", 100*share)),
		)
		b.WriteString(row + "\n")
		shown++
	}
	if shown == 0 {
		b.WriteString(Subtle.Render("no contributions") + "\n")
	}
	return b.String()
}

// RenderSpread formats a quantity probed at a fixed Rcm.
func RenderSpread(label string, rcm float64, s analysis.Spread, u Unit) string {
	var b strings.Builder
	b.WriteString(Title.Render(fmt.Sprintf("%s at Rcm = %.1f µm", label, rcm*Micron.Scale)))
	b.WriteString("\n")
	b.WriteString(formatQuantity(s.Quantity, u) + "\n")
	if len(s.Breakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(RenderBreakdown("budget", s.Breakdown, s.Quantity.Upper, u))
	}
	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}
