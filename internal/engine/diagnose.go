package engine

import (
	"github.com/smartspray-data/sprayer.report/internal/db"
)

// Severity is the prioritised operator-facing outcome band.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "normal"
	}
}

// Root-cause hints for an active anomaly, derived from the sign of the
// pressure error rather than from the model.
const (
	HintBlockage = "likely blockage"
	HintLeak     = "likely leak"
)

// Operator action text per severity band.
const (
	actionCritical = "stop immediately for repair"
	actionWarning  = "schedule maintenance before end of shift"
	actionNominal  = "no action required"
)

// Verdict is the single prioritised diagnostic outcome for one row.
type Verdict struct {
	Severity   Severity `json:"severity"`
	Action     string   `json:"action"`
	Confidence float64  `json:"confidence,omitempty"`    // critical only
	CauseHint  string   `json:"cause_hint,omitempty"`    // critical only
	RULHours   float64  `json:"rul_hours"`               // raw regressor output
	LifeLeft   float64  `json:"life_fraction,omitempty"` // warning only, clamped [0,1]
}

// Diagnose turns the two-model output for one row into a single verdict.
// The three branches are checked in strict priority order: an active anomaly
// always dominates a low RUL estimate, because a live anomaly is actionable
// now while RUL is a forward-looking estimate that gets noisy near a real
// failure.
func Diagnose(row db.SensorRow, pred Prediction) Verdict {
	// Priority 1: active anomaly. Short-circuits even when RUL is also low.
	if pred.Status == StatusAnomaly {
		hint := HintLeak
		if row.PressureBar > row.SetpointPressureBar {
			hint = HintBlockage
		}
		return Verdict{
			Severity:   SeverityCritical,
			Action:     actionCritical,
			Confidence: pred.Confidence,
			CauseHint:  hint,
			RULHours:   pred.RULHours,
		}
	}

	// Priority 2: preventive alert. The comparison uses the raw estimate,
	// negative values included; only the life fraction is clamped, and only
	// for display.
	if pred.RULHours < CriticalRULThresholdHours {
		return Verdict{
			Severity: SeverityWarning,
			Action:   actionWarning,
			RULHours: pred.RULHours,
			LifeLeft: clamp01(pred.RULHours / ReferenceHorizonHours),
		}
	}

	// Priority 3: nominal. RUL exactly at the threshold lands here.
	return Verdict{
		Severity: SeverityNormal,
		Action:   actionNominal,
		RULHours: pred.RULHours,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
