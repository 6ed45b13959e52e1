package api

import (
	"encoding/json"
	"net/http"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/smartspray-data/sprayer.report/internal/db"
	"github.com/smartspray-data/sprayer.report/internal/engine"
	"github.com/smartspray-data/sprayer.report/internal/units"
)

// rowAPI is the display form of one sensor row, with pressures converted to
// the server's configured units.
type rowAPI struct {
	Timestamp           time.Time `json:"timestamp"`
	PressureBar         float64   `json:"pressure"`
	FlowLMin            float64   `json:"flow_l_min"`
	TemperatureC        float64   `json:"temperature_c"`
	SetpointPressureBar float64   `json:"setpoint_pressure"`
	PressureErrorBar    float64   `json:"pressure_error"`
	OperatingState      string    `json:"operating_state"`
}

// rowToAPI converts a stored row for display. Raw bar values feed the engine;
// only the API response is converted.
func (s *Server) rowToAPI(r db.SensorRow, targetUnits string) rowAPI {
	return rowAPI{
		Timestamp:           r.Timestamp,
		PressureBar:         units.ConvertPressure(r.PressureBar, targetUnits),
		FlowLMin:            r.FlowLMin,
		TemperatureC:        r.TemperatureC,
		SetpointPressureBar: units.ConvertPressure(r.SetpointPressureBar, targetUnits),
		PressureErrorBar:    units.ConvertPressure(r.PressureErrorBar, targetUnits),
		OperatingState:      r.OperatingState,
	}
}

// trendSummary aggregates the trailing window for the dashboard header.
type trendSummary struct {
	Samples        int     `json:"samples"`
	PressureMean   float64 `json:"pressure_mean"`
	PressureStdDev float64 `json:"pressure_stddev"`
}

func summariseWindow(window []db.SensorRow, targetUnits string) trendSummary {
	if len(window) == 0 {
		return trendSummary{}
	}
	pressures := make([]float64, len(window))
	for i, r := range window {
		pressures[i] = units.ConvertPressure(r.PressureBar, targetUnits)
	}
	mean, std := stat.MeanStdDev(pressures, nil)
	if len(window) == 1 {
		std = 0
	}
	return trendSummary{
		Samples:        len(window),
		PressureMean:   mean,
		PressureStdDev: std,
	}
}

// diagnosisResponse is the full verdict for the currently selected row.
type diagnosisResponse struct {
	EquipmentID string            `json:"equipment_id"`
	Section     string            `json:"section"`
	Index       int               `json:"index"`
	OffsetHours float64           `json:"offset_hours"` // clamped, index/60
	Duration    float64           `json:"duration_hours"`
	Units       string            `json:"units"`
	Row         rowAPI            `json:"row"`
	Prediction  engine.Prediction `json:"prediction"`
	Verdict     engine.Verdict    `json:"verdict"`
	Trend       trendSummary      `json:"trend"`
}

func (s *Server) showDiagnosis(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	series, equipment, section, hours, ok := s.selection(w, r)
	if !ok {
		return
	}

	nav := engine.NewNavigator(series)
	row, index, err := nav.Current(hours)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	prediction, err := s.predictor.PredictRow(row)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	resp := diagnosisResponse{
		EquipmentID: equipment,
		Section:     section,
		Index:       index,
		OffsetHours: float64(index) / engine.SamplesPerHour,
		Duration:    nav.DurationHours(),
		Units:       s.units,
		Row:         s.rowToAPI(row, s.units),
		Prediction:  prediction,
		Verdict:     engine.Diagnose(row, prediction),
		Trend:       summariseWindow(nav.TrailingWindow(index), s.units),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write diagnosis")
		return
	}
}

// scanResponse reports the outcome of a forward scan. JumpHours is only set
// when an anomaly was found.
type scanResponse struct {
	Found         bool    `json:"found"`
	AbsoluteIndex int     `json:"absolute_index,omitempty"`
	JumpHours     float64 `json:"jump_hours,omitempty"`
}

func (s *Server) scanForward(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	series, _, _, hours, ok := s.selection(w, r)
	if !ok {
		return
	}

	nav := engine.NewNavigator(series)
	index, err := nav.IndexFor(hours)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	result, err := s.predictor.ScanForward(series, index)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	resp := scanResponse{Found: result.Found}
	if result.Found {
		resp.AbsoluteIndex = result.AbsoluteIndex
		resp.JumpHours = float64(result.AbsoluteIndex) / engine.SamplesPerHour
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write scan result")
		return
	}
}

// windowResponse carries the trailing trend window for rendering.
type windowResponse struct {
	Units string   `json:"units"`
	Rows  []rowAPI `json:"rows"`
}

func (s *Server) showWindow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	series, _, _, hours, ok := s.selection(w, r)
	if !ok {
		return
	}

	targetUnits := s.units
	if u := r.URL.Query().Get("units"); u != "" {
		if !units.IsValidPressure(u) {
			s.writeJSONError(w, http.StatusBadRequest,
				"invalid 'units' parameter, valid values: "+units.ValidPressureUnitsString())
			return
		}
		targetUnits = u
	}

	nav := engine.NewNavigator(series)
	index, err := nav.IndexFor(hours)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	window := nav.TrailingWindow(index)
	rows := make([]rowAPI, len(window))
	for i, row := range window {
		rows[i] = s.rowToAPI(row, targetUnits)
	}

	if err := json.NewEncoder(w).Encode(windowResponse{Units: targetUnits, Rows: rows}); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write window")
		return
	}
}
