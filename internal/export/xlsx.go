package export

import (
	"bytes"
	"fmt"

	"github.com/vladimiradmaev/glucose-logger/internal/analytics"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/utils"
	"github.com/xuri/excelize/v2"
)

// XLSXMimeType is the content type for the Excel download.
const XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Readings"

// WriteXLSX renders readings to an Excel workbook with the same columns
// as the CSV export.
func WriteXLSX(readings []domain.Reading) ([]byte, error) {
	f := excelize.NewFile()
	// Note: don't defer Close() here, WriteTo needs the file open

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, r := range analytics.SortByTimestampDesc(readings) {
		row := i + 2
		values := []interface{}{
			r.Timestamp.Format(utils.ISODateFormat),
			r.Timestamp.Format(utils.ClockFormat),
			string(r.Period),
			r.Value,
			r.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
