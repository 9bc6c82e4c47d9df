package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/server"
	"github.com/vladimiradmaev/glucose-logger/internal/store"
)

type fixedRepo struct {
	readings []domain.Reading
	mutErr   error
}

func (f *fixedRepo) List(_ context.Context) ([]domain.Reading, error) { return f.readings, nil }
func (f *fixedRepo) Create(_ context.Context, _ domain.Reading) error { return f.mutErr }
func (f *fixedRepo) Update(_ context.Context, _ domain.Reading) error { return f.mutErr }
func (f *fixedRepo) Delete(_ context.Context, _ string) error         { return f.mutErr }

func fixture() []domain.Reading {
	mk := func(id string, value float64, ts string, period domain.Period, note string) domain.Reading {
		parsed, err := time.ParseInLocation("2006-01-02T15:04", ts, time.Local)
		if err != nil {
			panic(err)
		}
		return domain.Reading{ID: id, Value: value, Timestamp: parsed, Period: period, Note: note}
	}
	return []domain.Reading{
		mk("r1", 5.7, "2024-05-17T07:45", domain.PeriodFasting, ""),
		mk("r2", 7.7, "2024-05-16T12:15", domain.PeriodPostMeal, "pasta"),
		mk("r3", 6.6, "2024-05-15T18:05", domain.PeriodPreMeal, ""),
		mk("r4", 4.3, "2024-05-14T08:00", domain.PeriodFasting, "felt shaky"),
	}
}

func newTestRouter(t *testing.T, repo domain.ReadingRepository) http.Handler {
	t.Helper()
	s := store.New(repo)
	require.NoError(t, s.Load(context.Background()))
	return server.NewRouter(server.NewServer(s), nil)
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestListReadings_DefaultPage(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodGet, "/api/readings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), body["page"])
	require.Equal(t, float64(1), body["totalPages"])
	require.Equal(t, float64(4), body["totalItems"])
	require.Equal(t, true, body["syncAvailable"])

	readings := body["readings"].([]any)
	require.Len(t, readings, 4)
	first := readings[0].(map[string]any)
	require.Equal(t, "r1", first["id"], "most recent first")
}

func TestListReadings_FilterByCategory(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodGet, "/api/readings?category=low", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), body["totalItems"])
}

func TestListReadings_InvalidCategory(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, _ := doJSON(t, h, http.MethodGet, "/api/readings?category=meh", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReadings_FilterBySearchAndDates(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodGet,
		"/api/readings?search=pasta&start=2024-05-14&end=2024-05-17", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), body["totalItems"])
}

func TestCreateReading(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodPost, "/api/readings",
		`{"value": 6.2, "period": "Post-Meal", "note": "test"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "committed", body["sync"])

	created := body["reading"].(map[string]any)
	require.NotEmpty(t, created["id"])
	require.Equal(t, "Post-Meal", created["period"])
}

func TestCreateReading_ValueOutOfRange(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, _ := doJSON(t, h, http.MethodPost, "/api/readings", `{"value": 42.0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReading_RemoteFailureIsLocalOnly(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture(), mutErr: errors.New("down")})

	rec, body := doJSON(t, h, http.MethodPost, "/api/readings", `{"value": 6.2}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "local_only", body["sync"])
	require.NotEmpty(t, body["message"])
}

func TestUpdateReading_UnknownID(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, _ := doJSON(t, h, http.MethodPut, "/api/readings/ghost", `{"value": 6.2}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReading(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodDelete, "/api/readings/r2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "committed", body["sync"])

	_, list := doJSON(t, h, http.MethodGet, "/api/readings", "")
	require.Equal(t, float64(3), list["totalItems"])
}

func TestSummaryEndpoint(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, "average")
	require.Contains(t, body, "recentAverage")
	require.Contains(t, body, "trend")
}

func TestChartEndpoint(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, body := doJSON(t, h, http.MethodGet, "/api/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["hasFasting"])
	require.Len(t, body["points"].([]any), 4)
}

func TestExportCSV(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "glucose-readings-")
	require.True(t, strings.HasPrefix(rec.Body.String(), `"Reading Date"`))
}

func TestExportRespectsFilter(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	req := httptest.NewRequest(http.MethodGet, "/api/export?period=Post-Meal", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\r\n")
	require.Len(t, lines, 2, "header plus the single post-meal reading")
	require.Contains(t, lines[1], "pasta")
}

func TestExportUnknownFormat(t *testing.T) {
	h := newTestRouter(t, &fixedRepo{readings: fixture()})

	rec, _ := doJSON(t, h, http.MethodGet, "/api/export?format=pdf", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpoint_LocalOnly(t *testing.T) {
	h := newTestRouter(t, nil)

	rec, body := doJSON(t, h, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["configured"])
	require.Equal(t, false, body["syncAvailable"])
	require.Equal(t, "local-only", body["mode"])
}
