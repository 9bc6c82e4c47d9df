// Package export serializes filtered reading sets into downloadable
// artifacts: CSV text and an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vladimiradmaev/glucose-logger/internal/analytics"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/utils"
)

// CSVMimeType is the content type for the CSV download.
const CSVMimeType = "text/csv"

var csvHeader = []string{"Reading Date", "Reading Time", "Period", "Value (mmol/L)", "Note"}

// WriteCSV serializes readings sorted most recent first. Every field is
// quoted with internal quotes doubled; rows are separated by CRLF.
func WriteCSV(w io.Writer, readings []domain.Reading) error {
	var b strings.Builder
	writeCSVRow(&b, csvHeader)

	for _, r := range analytics.SortByTimestampDesc(readings) {
		writeCSVRow(&b, []string{
			r.Timestamp.Format(utils.ISODateFormat),
			r.Timestamp.Format(utils.ClockFormat),
			string(r.Period),
			fmt.Sprintf("%.1f", r.Value),
			r.Note,
		})
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCSVRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

// Filename builds a download name suffixed with the export moment.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("glucose-readings-%s.%s", now.Format("20060102-150405"), ext)
}
