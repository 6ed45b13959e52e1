package engine

import (
	"github.com/smartspray-data/sprayer.report/internal/db"
)

// Contract constants shared with the frozen models and the operator UI.
// Changing any of these invalidates trained artifacts or display semantics.
const (
	// CriticalRULThresholdHours is the remaining-useful-life boundary below
	// which a Normal-classified row is escalated to a preventive Warning.
	CriticalRULThresholdHours = 48.0

	// ReferenceHorizonHours scales the remaining-life fraction for progress
	// display (one week). It is a display constant, not a decision boundary.
	ReferenceHorizonHours = 168.0

	// SamplesPerHour is the fixed sampling rate of the sensor series:
	// one row per simulated minute.
	SamplesPerHour = 60

	// TrailingWindowSamples is the trend-display window: 2 hours of samples.
	TrailingWindowSamples = 120
)

// FeatureCount is the width of the model feature vector. The order and count
// must exactly match what the frozen models were trained with; a mismatch is
// a contract violation, not a runtime-recoverable condition.
const FeatureCount = 7

// CategoryEncoder is a frozen bijection from string labels seen at training
// time to small non-negative integer codes. Implementations are immutable
// after load and shared read-only across all predictions.
type CategoryEncoder interface {
	// Encode returns the code for label, or ok=false for labels outside the
	// trained vocabulary.
	Encode(label string) (code int, ok bool)
}

// EncodeRow maps one sensor row into the fixed ordered feature vector the
// frozen models expect:
//
//	[pressure, flow, temperature, setpoint, pressure_error, section_code, state_code]
//
// An unseen section or operating-state label is a fatal *UnknownCategoryError.
func EncodeRow(row db.SensorRow, sections, states CategoryEncoder) ([]float64, error) {
	sectionCode, ok := sections.Encode(row.Section)
	if !ok {
		return nil, &UnknownCategoryError{Field: "section", Label: row.Section}
	}
	stateCode, ok := states.Encode(row.OperatingState)
	if !ok {
		return nil, &UnknownCategoryError{Field: "operating_state", Label: row.OperatingState}
	}

	return []float64{
		row.PressureBar,
		row.FlowLMin,
		row.TemperatureC,
		row.SetpointPressureBar,
		row.PressureErrorBar,
		float64(sectionCode),
		float64(stateCode),
	}, nil
}

// EncodeRows batch-encodes rows, preserving input order. Downstream index
// arithmetic (scan offsets) depends on positional correspondence, so the i-th
// vector always corresponds to rows[i]. The first unseen label aborts the
// whole batch.
func EncodeRows(rows []db.SensorRow, sections, states CategoryEncoder) ([][]float64, error) {
	vectors := make([][]float64, 0, len(rows))
	for i := range rows {
		v, err := EncodeRow(rows[i], sections, states)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}
