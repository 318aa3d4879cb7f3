package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter renders Dataset records into an Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter builds an Excel exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render produces a single-sheet workbook with a title row, bold headers and
// one row per record.
func (e *XLSXExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	const sheet = "Timetable"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if title != "" {
		if err := f.SetCellValue(sheet, cellName(1, row), title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		_ = f.MergeCell(sheet, cellName(1, row), cellName(len(data.Headers), row))
		_ = f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), headerStyle)
		row++
	}

	for i, header := range data.Headers {
		cell := cellName(i+1, row)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", header, err)
		}
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	row++

	for _, record := range data.Rows {
		for i, header := range data.Headers {
			value := record[header]
			if value == "" {
				value = "-"
			}
			if err := f.SetCellValue(sheet, cellName(i+1, row), value); err != nil {
				return nil, fmt.Errorf("write cell: %w", err)
			}
		}
		row++
	}

	for i := range data.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 18)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
