package engine

import (
	"os"
	"testing"
	"time"

	"github.com/smartspray-data/sprayer.report/internal/db"
	"github.com/smartspray-data/sprayer.report/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

// mapEncoder is a frozen label->code lookup for tests.
type mapEncoder map[string]int

func (m mapEncoder) Encode(label string) (int, bool) {
	code, ok := m[label]
	return code, ok
}

var (
	testSections = mapEncoder{"section_1": 0, "section_2": 1, "section_3": 2}
	testStates   = mapEncoder{"idle": 0, "spraying": 1, "transport": 2}
)

// thresholdClassifier flags a row anomalous when the absolute pressure error
// (feature index 4) exceeds its limit. Confidence scales with the error so
// tests can check that the scanner ignores confidence ordering.
type thresholdClassifier struct {
	errorLimit float64
}

func (c thresholdClassifier) PredictProba(features []float64) float64 {
	e := features[4]
	if e < 0 {
		e = -e
	}
	p := e / (2 * c.errorLimit)
	if p > 1 {
		p = 1
	}
	return p
}

func (c thresholdClassifier) Predict(features []float64) int {
	if c.PredictProba(features) >= 0.5 {
		return 1
	}
	return 0
}

// constRegressor always estimates the same RUL.
type constRegressor float64

func (r constRegressor) Predict([]float64) float64 { return float64(r) }

func testPredictor(rul float64) *Predictor {
	return NewPredictor(thresholdClassifier{errorLimit: 1.0}, constRegressor(rul), testSections, testStates)
}

// seriesRow builds a row at `minute` with the given pressure error; setpoint
// stays fixed at 8 bar.
func seriesRow(minute int, pressureError float64) db.SensorRow {
	base := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	return db.SensorRow{
		Timestamp:           base.Add(time.Duration(minute) * time.Minute),
		EquipmentID:         "EQ01",
		Section:             "section_1",
		OperatingState:      "spraying",
		PressureBar:         8.0 + pressureError,
		FlowLMin:            12.0,
		TemperatureC:        24.0,
		SetpointPressureBar: 8.0,
		PressureErrorBar:    pressureError,
	}
}

// flatSeries returns n nominal rows with anomalous pressure errors injected
// at the given indices.
func flatSeries(n int, anomalousAt ...int) []db.SensorRow {
	anomalous := make(map[int]bool, len(anomalousAt))
	for _, i := range anomalousAt {
		anomalous[i] = true
	}
	series := make([]db.SensorRow, n)
	for i := range series {
		if anomalous[i] {
			series[i] = seriesRow(i, 1.5)
		} else {
			series[i] = seriesRow(i, 0.1)
		}
	}
	return series
}
