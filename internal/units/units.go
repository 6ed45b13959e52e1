// Package units provides shared constants and conversion helpers for the
// pressure and flow units used in API responses.
package units

// Pressure unit constants
const (
	Bar = "bar"
	PSI = "psi"
	KPa = "kpa"
)

// Flow unit constants
const (
	LPM = "lpm" // litres per minute
	GPM = "gpm" // US gallons per minute
)

// ValidPressureUnits contains all valid pressure unit values
var ValidPressureUnits = []string{Bar, PSI, KPa}

// IsValidPressure checks if the given unit is a known pressure unit
func IsValidPressure(unit string) bool {
	for _, validUnit := range ValidPressureUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// ValidPressureUnitsString returns a comma-separated string of valid pressure
// units for error messages
func ValidPressureUnitsString() string {
	return "bar, psi, kpa"
}

// ConvertPressure converts a pressure from bar to the target units.
// Sensor data stores pressures in bar.
func ConvertPressure(pressureBar float64, targetUnits string) float64 {
	switch targetUnits {
	case PSI:
		return pressureBar * 14.503773773 // bar to psi
	case KPa:
		return pressureBar * 100.0 // bar to kPa
	case Bar:
		return pressureBar // no conversion needed
	default:
		return pressureBar // default to bar if unknown unit
	}
}

// ConvertFlow converts a flow rate from L/min to the target units.
// Sensor data stores flow in L/min.
func ConvertFlow(flowLPM float64, targetUnits string) float64 {
	switch targetUnits {
	case GPM:
		return flowLPM * 0.2641720524 // L/min to US gal/min
	case LPM:
		return flowLPM
	default:
		return flowLPM
	}
}
