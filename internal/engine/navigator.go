package engine

import (
	"math"

	"github.com/smartspray-data/sprayer.report/internal/db"
)

// Navigator maps an operator's time offset into rows of one selected
// (equipment, section) series. It holds no mutable session state: the offset
// is passed in and the derived index returned explicitly, so selections can
// change freely and stale positions simply clamp to the new series' bounds.
type Navigator struct {
	series []db.SensorRow
}

// NewNavigator wraps a time-ordered series. The slice is retained, not
// copied; callers must not mutate it while the navigator is in use.
func NewNavigator(series []db.SensorRow) *Navigator {
	return &Navigator{series: series}
}

// Len returns the number of rows in the series.
func (n *Navigator) Len() int {
	return len(n.series)
}

// DurationHours returns the series length expressed in operating hours at the
// fixed sampling rate.
func (n *Navigator) DurationHours() float64 {
	return float64(len(n.series)) / SamplesPerHour
}

// IndexFor converts an hours offset into a row index:
// floor(offset * SamplesPerHour), clamped to [0, Len()-1]. A negative offset
// clamps to 0; an offset past the end clamps to the last row.
func (n *Navigator) IndexFor(offsetHours float64) (int, error) {
	if len(n.series) == 0 {
		return 0, ErrEmptySeries
	}

	index := int(math.Floor(offsetHours * SamplesPerHour))
	if index < 0 {
		index = 0
	}
	if index > len(n.series)-1 {
		index = len(n.series) - 1
	}
	return index, nil
}

// Current returns the active row and its index for an hours offset.
func (n *Navigator) Current(offsetHours float64) (db.SensorRow, int, error) {
	index, err := n.IndexFor(offsetHours)
	if err != nil {
		return db.SensorRow{}, 0, err
	}
	return n.series[index], index, nil
}

// TrailingWindow returns up to TrailingWindowSamples rows ending at, and
// excluding, index — the 2-hour trend window behind the current position.
// The returned slice aliases the series.
func (n *Navigator) TrailingWindow(index int) []db.SensorRow {
	if index <= 0 || len(n.series) == 0 {
		return nil
	}
	if index > len(n.series) {
		index = len(n.series)
	}
	start := index - TrailingWindowSamples
	if start < 0 {
		start = 0
	}
	return n.series[start:index]
}
