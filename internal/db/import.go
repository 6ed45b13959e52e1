package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImportResult summarises one CSV import batch.
type ImportResult struct {
	ImportID   string
	SourceFile string
	RowCount   int
}

// csv column names produced by the synthetic data generator
var csvColumns = []string{
	"timestamp", "equipment_id", "section", "operating_state",
	"pressure_bar", "flow_L_min", "temperature_C",
	"setpoint_pressure_bar", "pressure_error_bar",
	"maintenance_due", "rul_hours",
}

// timestamp layouts accepted by the importer, tried in order
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ImportCSV loads a sensor-data CSV into the store inside a single
// transaction and records the batch in the imports table. The whole file is
// rejected on the first malformed row.
func (db *DB) ImportCSV(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}
	for _, required := range csvColumns {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("CSV missing required column %q", required)
		}
	}

	importID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO sensor_data (equipment_id, section, timestamp_unix,
			pressure_bar, flow_l_min, temperature_c, setpoint_pressure_bar,
			pressure_error_bar, operating_state, maintenance_due, rul_hours, import_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record %d: %w", count+1, err)
		}

		row, err := parseCSVRecord(record, colIdx)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", count+1, err)
		}

		maintDue := 0
		if row.MaintenanceDue {
			maintDue = 1
		}
		if _, err := stmt.Exec(
			row.EquipmentID, row.Section, float64(row.Timestamp.Unix()),
			row.PressureBar, row.FlowLMin, row.TemperatureC,
			row.SetpointPressureBar, row.PressureErrorBar,
			row.OperatingState, maintDue, row.RULHours, importID,
		); err != nil {
			return nil, fmt.Errorf("failed to insert record %d: %w", count+1, err)
		}
		count++
	}

	if _, err := tx.Exec(
		`INSERT INTO imports (import_id, source_file, row_count) VALUES (?, ?, ?)`,
		importID, path, count,
	); err != nil {
		return nil, fmt.Errorf("failed to record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &ImportResult{ImportID: importID, SourceFile: path, RowCount: count}, nil
}

func parseCSVRecord(record []string, colIdx map[string]int) (SensorRow, error) {
	var row SensorRow

	field := func(name string) string {
		return strings.TrimSpace(record[colIdx[name]])
	}

	ts, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return row, err
	}
	row.Timestamp = ts
	row.EquipmentID = field("equipment_id")
	row.Section = field("section")
	row.OperatingState = field("operating_state")

	floats := []struct {
		col string
		dst *float64
	}{
		{"pressure_bar", &row.PressureBar},
		{"flow_L_min", &row.FlowLMin},
		{"temperature_C", &row.TemperatureC},
		{"setpoint_pressure_bar", &row.SetpointPressureBar},
		{"pressure_error_bar", &row.PressureErrorBar},
		{"rul_hours", &row.RULHours},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(field(f.col), 64)
		if err != nil {
			return row, fmt.Errorf("failed to parse %s: %v", f.col, err)
		}
		*f.dst = v
	}

	switch v := field("maintenance_due"); v {
	case "0", "false", "False":
		row.MaintenanceDue = false
	case "1", "true", "True":
		row.MaintenanceDue = true
	default:
		return row, fmt.Errorf("failed to parse maintenance_due: invalid value %q", v)
	}

	return row, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", s)
}
