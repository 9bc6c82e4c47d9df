package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/vladimiradmaev/glucose-logger/internal/analytics"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	apperrors "github.com/vladimiradmaev/glucose-logger/internal/errors"
	"github.com/vladimiradmaev/glucose-logger/internal/export"
	"github.com/vladimiradmaev/glucose-logger/internal/store"
	"github.com/vladimiradmaev/glucose-logger/internal/utils"
)

// UI convention for accepted glucose values in mmol/L; enforced at this
// boundary only, the analytics core accepts anything.
const (
	minValue = 2.0
	maxValue = 25.0
)

// Server exposes the reading log over HTTP.
type Server struct {
	store *store.Store
}

func NewServer(s *store.Store) *Server {
	return &Server{store: s}
}

type readingPayload struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Period    string    `json:"period"`
	Note      string    `json:"note"`
}

type mutationResponse struct {
	Reading domain.Reading `json:"reading"`
	Sync    string         `json:"sync"`
	Message string         `json:"message,omitempty"`
}

type listResponse struct {
	Readings      []domain.Reading `json:"readings"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"totalPages"`
	TotalItems    int              `json:"totalItems"`
	SyncAvailable bool             `json:"syncAvailable"`
}

type statusResponse struct {
	Configured    bool   `json:"configured"`
	SyncAvailable bool   `json:"syncAvailable"`
	Mode          string `json:"mode"`
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) statusHandler(w http.ResponseWriter, _ *http.Request) {
	mode := "synced"
	if !s.store.SyncAvailable() {
		mode = "local-only"
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Configured:    s.store.Configured(),
		SyncAvailable: s.store.SyncAvailable(),
		Mode:          mode,
	})
}

// listReadingsHandler applies the filter parameters and returns one
// page of the result set.
func (s *Server) listReadingsHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	filtered := analytics.Filter(s.store.Readings(), params)
	paged := analytics.Paginate(filtered, page)

	writeJSON(w, http.StatusOK, listResponse{
		Readings:      paged.Items,
		Page:          paged.Number,
		TotalPages:    paged.TotalPages,
		TotalItems:    paged.TotalItems,
		SyncAvailable: s.store.SyncAvailable(),
	})
}

func (s *Server) summaryHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analytics.ComputeSummary(s.store.Readings()))
}

func (s *Server) chartHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, analytics.ComputeChartSeries(s.store.Readings()))
}

func (s *Server) createReadingHandler(w http.ResponseWriter, r *http.Request) {
	reading, err := decodeReading(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result := s.store.Insert(r.Context(), reading)
	writeJSON(w, http.StatusCreated, toMutationResponse(result))
}

func (s *Server) updateReadingHandler(w http.ResponseWriter, r *http.Request) {
	reading, err := decodeReading(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	reading.ID = mux.Vars(r)["id"]

	result, err := s.store.Update(r.Context(), reading)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, toMutationResponse(result))
}

func (s *Server) deleteReadingHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, toMutationResponse(result))
}

// exportHandler downloads the currently filtered set as CSV (default)
// or XLSX, with a timestamped filename.
func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	params, err := parseFilterParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	filtered := analytics.Filter(s.store.Readings(), params)

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", export.CSVMimeType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename("csv", time.Now())))
		if err := export.WriteCSV(w, filtered); err != nil {
			writeError(w, http.StatusInternalServerError, apperrors.NewInternalError(err))
		}
	case "xlsx":
		data, err := export.WriteXLSX(filtered)
		if err != nil {
			writeError(w, http.StatusInternalServerError, apperrors.NewInternalError(err))
			return
		}
		w.Header().Set("Content-Type", export.XLSXMimeType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.Filename("xlsx", time.Now())))
		w.Write(data)
	default:
		writeError(w, http.StatusBadRequest,
			apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", format)))
	}
}

func decodeReading(r *http.Request) (domain.Reading, error) {
	var payload readingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return domain.Reading{}, apperrors.NewValidationError("invalid request body")
	}
	if payload.Value < minValue || payload.Value > maxValue {
		return domain.Reading{}, apperrors.NewValidationError(
			fmt.Sprintf("value must be between %.1f and %.1f mmol/L", minValue, maxValue))
	}
	ts := payload.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return domain.Reading{
		Value:     payload.Value,
		Timestamp: ts,
		Period:    domain.ParsePeriod(payload.Period),
		Note:      payload.Note,
	}, nil
}

func parseFilterParams(r *http.Request) (analytics.FilterParams, error) {
	q := r.URL.Query()
	params := analytics.FilterParams{SearchTerm: q.Get("search")}

	if p := q.Get("period"); p != "" {
		switch domain.Period(p) {
		case domain.PeriodFasting, domain.PeriodPreMeal, domain.PeriodPostMeal:
			params.Period = domain.Period(p)
		default:
			return params, apperrors.NewValidationError(fmt.Sprintf("unknown period %q", p))
		}
	}

	if c := q.Get("category"); c != "" {
		switch domain.Category(c) {
		case domain.CategoryLow, domain.CategoryGood, domain.CategoryHigh:
			params.Category = domain.Category(c)
		default:
			return params, apperrors.NewValidationError(fmt.Sprintf("unknown category %q", c))
		}
	}

	if start := q.Get("start"); start != "" {
		t, err := time.ParseInLocation(utils.ISODateFormat, start, time.Local)
		if err != nil {
			return params, apperrors.NewValidationError("start must be an ISO date")
		}
		params.StartDate = t
	}
	if end := q.Get("end"); end != "" {
		t, err := time.ParseInLocation(utils.ISODateFormat, end, time.Local)
		if err != nil {
			return params, apperrors.NewValidationError("end must be an ISO date")
		}
		params.EndDate = t
	}
	return params, nil
}

func toMutationResponse(result store.MutationResult) mutationResponse {
	resp := mutationResponse{
		Reading: result.Reading,
		Sync:    string(result.State),
	}
	if result.State == store.StateLocalOnly {
		resp.Message = "Saved locally; changes will not reach the remote store"
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
