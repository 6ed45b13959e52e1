// Command trend-plot renders an offline PNG of the pressure trend for one
// (equipment, section) selection, pressure against setpoint, for report
// attachments and post-season review.
package main

import (
	"flag"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	_ "modernc.org/sqlite"

	"github.com/smartspray-data/sprayer.report/internal/db"
	"github.com/smartspray-data/sprayer.report/internal/engine"
)

var (
	dbPath    = flag.String("db", "sprayer_data.db", "Path to sqlite database")
	equipment = flag.String("equipment", "", "Equipment identifier")
	section   = flag.String("section", "", "Boom section")
	fromHours = flag.Float64("from", 0, "Start offset in operating hours")
	toHours   = flag.Float64("to", -1, "End offset in operating hours (-1 = end of series)")
	output    = flag.String("out", "trend.png", "Output PNG path")
)

func main() {
	flag.Parse()

	if *equipment == "" || *section == "" {
		log.Fatal("-equipment and -section are required")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	series, err := database.SeriesFor(*equipment, *section)
	if err != nil {
		log.Fatalf("failed to load series: %v", err)
	}
	if len(series) == 0 {
		log.Fatalf("no data for %s/%s", *equipment, *section)
	}

	start := int(*fromHours * engine.SamplesPerHour)
	if start < 0 {
		start = 0
	}
	end := len(series)
	if *toHours >= 0 {
		end = int(*toHours * engine.SamplesPerHour)
		if end > len(series) {
			end = len(series)
		}
	}
	if start >= end {
		log.Fatalf("empty range: from=%v to=%v over %d rows", *fromHours, *toHours, len(series))
	}

	pressurePts := make(plotter.XYs, 0, end-start)
	setpointPts := make(plotter.XYs, 0, end-start)
	for i := start; i < end; i++ {
		hours := float64(i) / engine.SamplesPerHour
		pressurePts = append(pressurePts, plotter.XY{X: hours, Y: series[i].PressureBar})
		setpointPts = append(setpointPts, plotter.XY{X: hours, Y: series[i].SetpointPressureBar})
	}

	p := plot.New()
	p.Title.Text = *equipment + " / " + *section + " pressure trend"
	p.X.Label.Text = "operating hours"
	p.Y.Label.Text = "pressure (bar)"

	pressureLine, err := plotter.NewLine(pressurePts)
	if err != nil {
		log.Fatalf("failed to build pressure line: %v", err)
	}
	pressureLine.Width = vg.Points(1)
	pressureLine.Color = color.RGBA{R: 200, G: 40, B: 40, A: 255}

	setpointLine, err := plotter.NewLine(setpointPts)
	if err != nil {
		log.Fatalf("failed to build setpoint line: %v", err)
	}
	setpointLine.Width = vg.Points(1)
	setpointLine.Color = color.RGBA{R: 40, G: 40, B: 200, A: 255}
	setpointLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(pressureLine, setpointLine)
	p.Legend.Add("pressure", pressureLine)
	p.Legend.Add("setpoint", setpointLine)

	if err := p.Save(14*vg.Inch, 6*vg.Inch, *output); err != nil {
		log.Fatalf("failed to save plot: %v", err)
	}
	log.Printf("wrote %s (%d samples)", *output, end-start)
}
