package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/export"
)

func reading(value float64, ts string, period domain.Period, note string) domain.Reading {
	t, err := time.ParseInLocation("2006-01-02T15:04", ts, time.Local)
	if err != nil {
		panic(err)
	}
	return domain.Reading{ID: ts, Value: value, Timestamp: t, Period: period, Note: note}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	readings := []domain.Reading{
		reading(6.6, "2024-05-15T18:05", domain.PeriodPreMeal, "light dinner"),
		reading(5.7, "2024-05-17T07:45", domain.PeriodFasting, ""),
		reading(7.7, "2024-05-16T12:15", domain.PeriodPostMeal, "pasta"),
	}

	var b strings.Builder
	require.NoError(t, export.WriteCSV(&b, readings))

	lines := strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 4)
	require.Equal(t, `"Reading Date","Reading Time","Period","Value (mmol/L)","Note"`, lines[0])

	// Sorted descending by timestamp.
	require.Equal(t, `"2024-05-17","07:45 AM","Fasting","5.7",""`, lines[1])
	require.Equal(t, `"2024-05-16","12:15 PM","Post-Meal","7.7","pasta"`, lines[2])
	require.Equal(t, `"2024-05-15","06:05 PM","Pre-Meal","6.6","light dinner"`, lines[3])
}

func TestWriteCSV_QuotesAreDoubled(t *testing.T) {
	readings := []domain.Reading{
		reading(5.0, "2024-05-17T07:45", domain.PeriodFasting, `felt "off" today`),
	}

	var b strings.Builder
	require.NoError(t, export.WriteCSV(&b, readings))
	require.Contains(t, b.String(), `"felt ""off"" today"`)
}

func TestWriteCSV_EmptySetWritesHeaderOnly(t *testing.T) {
	var b strings.Builder
	require.NoError(t, export.WriteCSV(&b, nil))
	require.Equal(t, `"Reading Date","Reading Time","Period","Value (mmol/L)","Note"`+"\r\n", b.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 5, 17, 7, 45, 30, 0, time.Local)
	require.Equal(t, "glucose-readings-20240517-074530.csv", export.Filename("csv", now))
}

func TestWriteXLSX_ProducesWorkbook(t *testing.T) {
	readings := []domain.Reading{
		reading(5.7, "2024-05-17T07:45", domain.PeriodFasting, "morning"),
	}

	data, err := export.WriteXLSX(readings)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	// XLSX files are zip archives.
	require.Equal(t, "PK", string(data[:2]))
}
