package engine

import (
	"time"

	"github.com/smartspray-data/sprayer.report/internal/db"
	"github.com/smartspray-data/sprayer.report/internal/monitoring"
)

// ScanResult locates the first predicted anomaly strictly after a scan's
// starting index. Found=false is a normal outcome (no further data, or no
// anomalous row ahead), distinct from an error.
type ScanResult struct {
	Found         bool `json:"found"`
	AbsoluteIndex int  `json:"absolute_index,omitempty"` // position in the full series
}

// ScanForward searches the series for the first row strictly after startIndex
// that the classifier flags as anomalous. Ties break to the earliest row, not
// the most confident one: the scanner optimises for earliest warning.
//
// A startIndex at or past the last row is a normal miss. An encoding failure
// anywhere in the slice aborts the whole scan; a partial result is never
// returned.
func (p *Predictor) ScanForward(series []db.SensorRow, startIndex int) (ScanResult, error) {
	if !p.Ready() {
		return ScanResult{}, ErrModelsUnavailable
	}

	if startIndex < -1 {
		startIndex = -1
	}
	if startIndex+1 >= len(series) {
		return ScanResult{}, nil
	}

	began := time.Now()
	ahead := series[startIndex+1:]

	predictions, err := p.PredictBatch(ahead)
	if err != nil {
		return ScanResult{}, err
	}

	for i, pred := range predictions {
		if pred.Status == StatusAnomaly {
			monitoring.Logf("scan: anomaly at offset %d of %d rows ahead (%.1fms)",
				i, len(ahead), float64(time.Since(began).Nanoseconds())/1e6)
			return ScanResult{Found: true, AbsoluteIndex: startIndex + 1 + i}, nil
		}
	}

	monitoring.Logf("scan: no anomaly in %d rows ahead (%.1fms)",
		len(ahead), float64(time.Since(began).Nanoseconds())/1e6)
	return ScanResult{}, nil
}
