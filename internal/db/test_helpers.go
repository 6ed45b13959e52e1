package db

import (
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB creates a migrated sqlite database in a test temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	return db
}

// testRow builds a SensorRow minute `minute` into a synthetic series.
func testRow(equipment, section string, minute int) SensorRow {
	base := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	return SensorRow{
		Timestamp:           base.Add(time.Duration(minute) * time.Minute),
		EquipmentID:         equipment,
		Section:             section,
		OperatingState:      "spraying",
		PressureBar:         8.0,
		FlowLMin:            12.5,
		TemperatureC:        24.0,
		SetpointPressureBar: 8.0,
		PressureErrorBar:    0.0,
		RULHours:            200.0,
	}
}

// insertTestSeries writes n consecutive rows for one (equipment, section).
func insertTestSeries(t *testing.T, db *DB, equipment, section string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := db.InsertRow(testRow(equipment, section, i), ""); err != nil {
			t.Fatalf("InsertRow failed: %v", err)
		}
	}
}
