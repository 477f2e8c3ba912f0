// Package export renders movement listings as downloadable spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/domain/movement"
)

// Format is a supported export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Movements"

var header = []string{"id", "date", "type", "category", "amount", "note"}

// ParseFormat maps a query value to a Format; empty selects CSV
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", movement.ValidationError{Field: "format", Reason: "must be one of csv, xlsx"}
}

// ContentType is the MIME type sent with the file
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName names the download after the day it was produced
func (f Format) FileName(now time.Time) string {
	return fmt.Sprintf("movements_%s.%s", now.UTC().Format("20060102"), f)
}

// Write renders ms in the given format
func Write(w io.Writer, f Format, ms []*movement.Movement) error {
	if f == FormatXLSX {
		return WriteXLSX(w, ms)
	}
	return WriteCSV(w, ms)
}

// WriteCSV writes one header row and one row per movement
func WriteCSV(w io.Writer, ms []*movement.Movement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, m := range ms {
		if err := cw.Write(row(m)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same columns as WriteCSV to a single-sheet workbook,
// with amounts as numeric cells
func WriteXLSX(w io.Writer, ms []*movement.Movement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, m := range ms {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			m.ID.Hex(),
			m.Date.UTC().Format(time.DateOnly),
			string(m.Type),
			m.Category,
			m.Amount,
			m.Note,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 26)
	_ = f.SetColWidth(sheetName, "B", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "D", 16)
	_ = f.SetColWidth(sheetName, "F", "F", 40)

	_, err := f.WriteTo(w)
	return err
}

func row(m *movement.Movement) []string {
	return []string{
		m.ID.Hex(),
		m.Date.UTC().Format(time.DateOnly),
		string(m.Type),
		m.Category,
		strconv.FormatFloat(m.Amount, 'f', -1, 64),
		m.Note,
	}
}
