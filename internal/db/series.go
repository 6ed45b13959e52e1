package db

import (
	"fmt"
	"time"
)

// SensorRow is one timestamped observation for one (equipment, section) pair.
// MaintenanceDue and RULHours are ground-truth labels written by the data
// generator; the inference engine never reads them.
type SensorRow struct {
	Timestamp           time.Time `json:"timestamp"`
	EquipmentID         string    `json:"equipment_id"`
	Section             string    `json:"section"`
	OperatingState      string    `json:"operating_state"`
	PressureBar         float64   `json:"pressure_bar"`
	FlowLMin            float64   `json:"flow_l_min"`
	TemperatureC        float64   `json:"temperature_c"`
	SetpointPressureBar float64   `json:"setpoint_pressure_bar"`
	PressureErrorBar    float64   `json:"pressure_error_bar"`
	MaintenanceDue      bool      `json:"-"`
	RULHours            float64   `json:"-"`
}

func (r *SensorRow) String() string {
	return fmt.Sprintf(
		"Equipment: %s, Section: %s, Timestamp: %s, Pressure: %.2f bar, Flow: %.2f L/min, Temp: %.1f C, Setpoint: %.2f bar, Error: %.2f bar, State: %s",
		r.EquipmentID, r.Section, r.Timestamp.Format(time.RFC3339),
		r.PressureBar, r.FlowLMin, r.TemperatureC,
		r.SetpointPressureBar, r.PressureErrorBar, r.OperatingState,
	)
}

const sensorRowColumns = `timestamp_unix, equipment_id, section, operating_state,
		pressure_bar, flow_l_min, temperature_c, setpoint_pressure_bar,
		pressure_error_bar, maintenance_due, rul_hours`

// SeriesFor returns the full time-ordered series for one (equipment, section)
// pair, sorted ascending by timestamp.
func (db *DB) SeriesFor(equipmentID, section string) ([]SensorRow, error) {
	rows, err := db.Query(
		`SELECT `+sensorRowColumns+`
		FROM sensor_data
		WHERE equipment_id = ? AND section = ?
		ORDER BY timestamp_unix ASC`,
		equipmentID, section,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []SensorRow
	for rows.Next() {
		var (
			r        SensorRow
			unix     float64
			maintDue int64
		)
		if err := rows.Scan(
			&unix,
			&r.EquipmentID,
			&r.Section,
			&r.OperatingState,
			&r.PressureBar,
			&r.FlowLMin,
			&r.TemperatureC,
			&r.SetpointPressureBar,
			&r.PressureErrorBar,
			&maintDue,
			&r.RULHours,
		); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(int64(unix), 0).UTC()
		r.MaintenanceDue = maintDue != 0
		series = append(series, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return series, nil
}

// InsertRow writes a single sensor row. importID may be empty for rows not
// created by a CSV import.
func (db *DB) InsertRow(r SensorRow, importID string) error {
	maintDue := 0
	if r.MaintenanceDue {
		maintDue = 1
	}
	var impID interface{}
	if importID != "" {
		impID = importID
	}
	_, err := db.Exec(
		`INSERT INTO sensor_data (equipment_id, section, timestamp_unix,
			pressure_bar, flow_l_min, temperature_c, setpoint_pressure_bar,
			pressure_error_bar, operating_state, maintenance_due, rul_hours, import_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EquipmentID, r.Section, float64(r.Timestamp.Unix()),
		r.PressureBar, r.FlowLMin, r.TemperatureC, r.SetpointPressureBar,
		r.PressureErrorBar, r.OperatingState, maintDue, r.RULHours, impID,
	)
	return err
}

// Equipment returns the distinct equipment identifiers present in the store.
func (db *DB) Equipment() ([]string, error) {
	return db.distinctStrings(`SELECT DISTINCT equipment_id FROM sensor_data ORDER BY equipment_id`)
}

// Sections returns the distinct boom sections recorded for one equipment.
func (db *DB) Sections(equipmentID string) ([]string, error) {
	rows, err := db.Query(
		`SELECT DISTINCT section FROM sensor_data WHERE equipment_id = ? ORDER BY section`,
		equipmentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (db *DB) distinctStrings(query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
