// Package viz renders inference results and attenuation tables for the
// terminal.
//
//   - [RenderResult]: ρR and Rcm with their uncertainty breakdown
//   - [RenderSpread]: a probed quantity at fixed Rcm
//   - [PlotTable]: exit energy or areal density across the table
//
// Output is styled with lipgloss and falls back to plain text when the
// terminal has no color support.
package viz
