package engine

import (
	"github.com/smartspray-data/sprayer.report/internal/db"
)

// Classifier is the narrow capability contract of the frozen anomaly model.
// Predict returns 0 (normal) or 1 (anomaly) at the fixed 0.5 decision
// boundary; PredictProba returns the probability assigned to the anomaly
// class, in [0,1].
type Classifier interface {
	Predict(features []float64) int
	PredictProba(features []float64) float64
}

// Regressor is the narrow capability contract of the frozen RUL model.
// The estimate is unbounded below: degenerate extrapolation can produce
// negative hours, and callers clamp for display only, never before decision
// logic.
type Regressor interface {
	Predict(features []float64) float64
}

// Status is the classifier's verdict on the current row.
type Status int

const (
	StatusNormal Status = iota
	StatusAnomaly
)

func (s Status) String() string {
	if s == StatusAnomaly {
		return "anomaly"
	}
	return "normal"
}

// Prediction is the combined two-model output for one row.
type Prediction struct {
	Status     Status  `json:"status"`
	Confidence float64 `json:"confidence"` // P(anomaly), in [0,1]
	RULHours   float64 `json:"rul_hours"`  // may be negative
}

// BatchPrediction carries the classifier-only output used during scanning;
// RUL is not needed to locate the next anomaly.
type BatchPrediction struct {
	Status     Status
	Confidence float64
}

// Predictor bundles the frozen artifacts behind the single- and batch-
// prediction operations. All four artifacts load once at process start and
// are never mutated, so a Predictor is safe for shared read-only use.
//
// A Predictor constructed with any nil artifact is permanently disabled:
// every operation returns ErrModelsUnavailable instead of guessing.
type Predictor struct {
	clf      Classifier
	reg      Regressor
	sections CategoryEncoder
	states   CategoryEncoder
}

// NewPredictor builds a Predictor from loaded artifacts. Pass nil artifacts
// (e.g. after a failed load) to get a disabled predictor that reports
// ErrModelsUnavailable rather than crashing.
func NewPredictor(clf Classifier, reg Regressor, sections, states CategoryEncoder) *Predictor {
	return &Predictor{clf: clf, reg: reg, sections: sections, states: states}
}

// Disabled returns a predictor whose operations all report
// ErrModelsUnavailable.
func Disabled() *Predictor {
	return &Predictor{}
}

// Ready reports whether all four frozen artifacts are present.
func (p *Predictor) Ready() bool {
	return p.clf != nil && p.reg != nil && p.sections != nil && p.states != nil
}

// PredictRow runs both frozen models against a single row. Deterministic
// given fixed model weights; no side effects.
func (p *Predictor) PredictRow(row db.SensorRow) (Prediction, error) {
	if !p.Ready() {
		return Prediction{}, ErrModelsUnavailable
	}

	features, err := EncodeRow(row, p.sections, p.states)
	if err != nil {
		return Prediction{}, err
	}

	pred := Prediction{
		Confidence: p.clf.PredictProba(features),
		RULHours:   p.reg.Predict(features),
	}
	if p.clf.Predict(features) == 1 {
		pred.Status = StatusAnomaly
	}
	return pred, nil
}

// PredictBatch runs the classifier over rows, preserving input order. Used by
// the forward scanner, which only needs the binary flag and its confidence.
// Any encoding failure aborts the whole batch with no partial result.
func (p *Predictor) PredictBatch(rows []db.SensorRow) ([]BatchPrediction, error) {
	if !p.Ready() {
		return nil, ErrModelsUnavailable
	}

	vectors, err := EncodeRows(rows, p.sections, p.states)
	if err != nil {
		return nil, err
	}

	out := make([]BatchPrediction, len(vectors))
	for i, v := range vectors {
		out[i].Confidence = p.clf.PredictProba(v)
		if p.clf.Predict(v) == 1 {
			out[i].Status = StatusAnomaly
		}
	}
	return out, nil
}
