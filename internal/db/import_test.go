package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCSVHeader = "timestamp,equipment_id,section,operating_state,pressure_bar,flow_L_min,temperature_C,setpoint_pressure_bar,pressure_error_bar,maintenance_due,rul_hours"

func writeTestCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensor.csv")
	content := testCSVHeader + "\n" + strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test CSV: %v", err)
	}
	return path
}

func TestImportCSV(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	path := writeTestCSV(t,
		"2025-03-01 06:00:00,EQ01,section_1,spraying,8.02,12.40,24.1,8.00,0.02,0,199.5",
		"2025-03-01 06:01:00,EQ01,section_1,spraying,7.95,12.38,24.1,8.00,-0.05,0,199.4",
		"2025-03-01 06:02:00,EQ01,section_1,spraying,9.41,10.02,24.2,8.00,1.41,1,0.0",
	)

	result, err := db.ImportCSV(path)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if result.RowCount != 3 {
		t.Errorf("RowCount = %d, want 3", result.RowCount)
	}
	if result.ImportID == "" {
		t.Error("ImportID is empty, want a UUID")
	}

	series, err := db.SeriesFor("EQ01", "section_1")
	if err != nil {
		t.Fatalf("SeriesFor failed: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("len(series) = %d, want 3", len(series))
	}
	if series[2].PressureBar != 9.41 || !series[2].MaintenanceDue {
		t.Errorf("series[2] = %+v, want pressure 9.41 and maintenance_due", series[2])
	}

	// Import batch must be recorded with the same id and count.
	var rowCount int
	err = db.QueryRow(`SELECT row_count FROM imports WHERE import_id = ?`, result.ImportID).Scan(&rowCount)
	if err != nil {
		t.Fatalf("failed to read imports row: %v", err)
	}
	if rowCount != 3 {
		t.Errorf("imports.row_count = %d, want 3", rowCount)
	}
}

func TestImportCSV_MissingColumn(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("timestamp,equipment_id\n2025-03-01 06:00:00,EQ01\n"), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}

	if _, err := db.ImportCSV(path); err == nil {
		t.Fatal("expected error for CSV missing required columns, got nil")
	}
}

func TestImportCSV_MalformedRowAbortsWholeImport(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	path := writeTestCSV(t,
		"2025-03-01 06:00:00,EQ01,section_1,spraying,8.02,12.40,24.1,8.00,0.02,0,199.5",
		"2025-03-01 06:01:00,EQ01,section_1,spraying,not-a-number,12.38,24.1,8.00,-0.05,0,199.4",
	)

	if _, err := db.ImportCSV(path); err == nil {
		t.Fatal("expected error for malformed row, got nil")
	}

	// Nothing from the batch may remain.
	series, err := db.SeriesFor("EQ01", "section_1")
	if err != nil {
		t.Fatalf("SeriesFor failed: %v", err)
	}
	if len(series) != 0 {
		t.Errorf("len(series) = %d after failed import, want 0", len(series))
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.ImportCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
