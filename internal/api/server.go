package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/smartspray-data/sprayer.report/internal/db"
	"github.com/smartspray-data/sprayer.report/internal/engine"
	"github.com/smartspray-data/sprayer.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server exposes the prediction engine and sensor store over HTTP. The
// predictor may be disabled (models not ready); prediction routes then
// report 503 while data routes keep working.
type Server struct {
	db        *db.DB
	predictor *engine.Predictor
	units     string
}

func NewServer(database *db.DB, predictor *engine.Predictor, units string) *Server {
	return &Server{
		db:        database,
		predictor: predictor,
		units:     units,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/series", s.listSeries)
	mux.HandleFunc("/diagnosis", s.showDiagnosis)
	mux.HandleFunc("/scan", s.scanForward)
	mux.HandleFunc("/window", s.showWindow)
	mux.HandleFunc("/trend", s.renderTrend)
	mux.HandleFunc("/config", s.showConfig)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeEngineError maps engine failures onto HTTP statuses: models not ready
// is a service condition (503), an out-of-vocabulary label is bad data (422).
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrModelsUnavailable) {
		s.writeJSONError(w, http.StatusServiceUnavailable, "models not ready")
		return
	}
	var unknownErr *engine.UnknownCategoryError
	if errors.As(err, &unknownErr) {
		s.writeJSONError(w, http.StatusUnprocessableEntity, unknownErr.Error())
		return
	}
	s.writeJSONError(w, http.StatusInternalServerError, err.Error())
}

// selection reads the equipment/section/hours query parameters and loads the
// matching series. A valid selection with no rows gets a 404 and ok=false.
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (series []db.SensorRow, equipment, section string, hours float64, ok bool) {
	equipment = r.URL.Query().Get("equipment")
	section = r.URL.Query().Get("section")
	if equipment == "" || section == "" {
		s.writeJSONError(w, http.StatusBadRequest, "parameters 'equipment' and 'section' are required")
		return nil, "", "", 0, false
	}

	hours = 0.0
	if h := r.URL.Query().Get("hours"); h != "" {
		parsed, err := strconv.ParseFloat(h, 64)
		if err != nil {
			s.writeJSONError(w, http.StatusBadRequest, "invalid 'hours' parameter")
			return nil, "", "", 0, false
		}
		hours = parsed
	}

	series, err := s.db.SeriesFor(equipment, section)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load series: "+err.Error())
		return nil, "", "", 0, false
	}
	if len(series) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no data for selection")
		return nil, "", "", 0, false
	}

	return series, equipment, section, hours, true
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	config := map[string]interface{}{
		"units":        s.units,
		"models_ready": s.predictor.Ready(),
		"version":      version.Version,
	}

	if err := json.NewEncoder(w).Encode(config); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}

// seriesInfo describes one selectable equipment with its boom sections.
type seriesInfo struct {
	EquipmentID string   `json:"equipment_id"`
	Sections    []string `json:"sections"`
}

func (s *Server) listSeries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	equipment, err := s.db.Equipment()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to list equipment: "+err.Error())
		return
	}

	infos := make([]seriesInfo, 0, len(equipment))
	for _, eq := range equipment {
		sections, err := s.db.Sections(eq)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, "Failed to list sections: "+err.Error())
			return
		}
		infos = append(infos, seriesInfo{EquipmentID: eq, Sections: sections})
	}

	if err := json.NewEncoder(w).Encode(infos); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write series list")
		return
	}
}
