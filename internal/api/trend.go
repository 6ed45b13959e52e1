package api

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/smartspray-data/sprayer.report/internal/engine"
	"github.com/smartspray-data/sprayer.report/internal/units"
)

// renderTrend serves a self-contained HTML line chart of the pressure trend
// over the trailing window, pressure against setpoint. This is the quick
// operator view of the last two hours before the selected position.
func (s *Server) renderTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	series, equipment, section, hours, ok := s.selection(w, r)
	if !ok {
		return
	}

	nav := engine.NewNavigator(series)
	index, err := nav.IndexFor(hours)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	window := nav.TrailingWindow(index)
	if len(window) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no trailing data at this position")
		return
	}

	timestamps := make([]string, len(window))
	pressure := make([]opts.LineData, len(window))
	setpoint := make([]opts.LineData, len(window))
	for i, row := range window {
		timestamps[i] = row.Timestamp.Format("15:04")
		pressure[i] = opts.LineData{Value: units.ConvertPressure(row.PressureBar, s.units)}
		setpoint[i] = opts.LineData{Value: units.ConvertPressure(row.SetpointPressureBar, s.units)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Pressure Trend",
			Width:     "1100px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Pressure trend: %s / %s", equipment, section),
			Subtitle: fmt.Sprintf("last %d samples before index %d (%s)", len(window), index, s.units),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "pressure (" + s.units + ")"}),
	)

	line.SetXAxis(timestamps).
		AddSeries("pressure", pressure).
		AddSeries("setpoint", setpoint)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to render trend chart")
		return
	}
}
