package engine

import (
	"math"
	"testing"
)

func TestDiagnose_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		pred Prediction
		want Severity
	}{
		{"anomaly with healthy RUL", Prediction{Status: StatusAnomaly, Confidence: 0.9, RULHours: 500}, SeverityCritical},
		{"anomaly with low RUL stays critical", Prediction{Status: StatusAnomaly, Confidence: 0.7, RULHours: 3}, SeverityCritical},
		{"anomaly with negative RUL stays critical", Prediction{Status: StatusAnomaly, Confidence: 0.6, RULHours: -2}, SeverityCritical},
		{"normal with low RUL", Prediction{Status: StatusNormal, RULHours: 20}, SeverityWarning},
		{"normal with negative RUL", Prediction{Status: StatusNormal, RULHours: -5}, SeverityWarning},
		{"normal with healthy RUL", Prediction{Status: StatusNormal, RULHours: 300}, SeverityNormal},
	}

	row := seriesRow(0, 0.5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose(row, tt.pred)
			if got.Severity != tt.want {
				t.Errorf("Severity = %v, want %v", got.Severity, tt.want)
			}
		})
	}
}

func TestDiagnose_ThresholdBoundary(t *testing.T) {
	row := seriesRow(0, 0)

	// Just under the threshold escalates.
	got := Diagnose(row, Prediction{Status: StatusNormal, RULHours: 47.99})
	if got.Severity != SeverityWarning {
		t.Errorf("RUL 47.99: Severity = %v, want warning", got.Severity)
	}

	// Exactly at the threshold stays nominal: non-strict inequality favours
	// Nominal at the boundary.
	got = Diagnose(row, Prediction{Status: StatusNormal, RULHours: 48.0})
	if got.Severity != SeverityNormal {
		t.Errorf("RUL 48.0: Severity = %v, want normal", got.Severity)
	}
}

func TestDiagnose_CauseHint(t *testing.T) {
	pred := Prediction{Status: StatusAnomaly, Confidence: 0.85, RULHours: 10}

	over := seriesRow(0, 0)
	over.PressureBar = 10.0
	over.SetpointPressureBar = 8.0
	if got := Diagnose(over, pred); got.CauseHint != HintBlockage {
		t.Errorf("pressure 10.0 vs setpoint 8.0: CauseHint = %q, want %q", got.CauseHint, HintBlockage)
	}

	under := seriesRow(0, 0)
	under.PressureBar = 5.0
	under.SetpointPressureBar = 8.0
	if got := Diagnose(under, pred); got.CauseHint != HintLeak {
		t.Errorf("pressure 5.0 vs setpoint 8.0: CauseHint = %q, want %q", got.CauseHint, HintLeak)
	}
}

func TestDiagnose_CriticalCarriesConfidence(t *testing.T) {
	row := seriesRow(0, 1.5)
	got := Diagnose(row, Prediction{Status: StatusAnomaly, Confidence: 0.91, RULHours: 12})

	if got.Confidence != 0.91 {
		t.Errorf("Confidence = %v, want 0.91", got.Confidence)
	}
	if got.Action == "" {
		t.Error("Action is empty, want operator guidance")
	}
}

func TestDiagnose_WarningLifeFraction(t *testing.T) {
	row := seriesRow(0, 0)

	got := Diagnose(row, Prediction{Status: StatusNormal, RULHours: 42.0})
	want := 42.0 / ReferenceHorizonHours
	if math.Abs(got.LifeLeft-want) > 1e-12 {
		t.Errorf("LifeLeft = %v, want %v", got.LifeLeft, want)
	}
	if got.RULHours != 42.0 {
		t.Errorf("RULHours = %v, want raw 42.0", got.RULHours)
	}

	// Negative estimates clamp to zero for display; the raw value stays.
	got = Diagnose(row, Prediction{Status: StatusNormal, RULHours: -10.0})
	if got.LifeLeft != 0 {
		t.Errorf("LifeLeft = %v for negative RUL, want 0", got.LifeLeft)
	}
	if got.RULHours != -10.0 {
		t.Errorf("RULHours = %v, want raw -10.0", got.RULHours)
	}
}
