package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXRenderer writes an "Outputs" sheet and a "Profile" sheet.
type XLSXRenderer struct{}

// NewXLSXRenderer creates an XLSXRenderer.
func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Extension() string { return ".xlsx" }

const (
	outputsSheet = "Outputs"
	profileSheet = "Profile"
)

// Render builds the workbook.
func (r *XLSXRenderer) Render(b *Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", outputsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(profileSheet); err != nil {
		return nil, fmt.Errorf("create profile sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	rows := [][]any{{"Type", "Title", "Language", "Tier", "Created", "Content"}}
	for _, o := range b.Outputs {
		rows = append(rows, []any{o.Type, o.Title, o.Language, o.Tier, o.CreatedAt.Format("2006-01-02 15:04"), o.Content})
	}
	if err := writeRows(f, outputsSheet, rows); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(outputsSheet, "A1", "F1", header)
	_ = f.SetColWidth(outputsSheet, "A", "A", 24)
	_ = f.SetColWidth(outputsSheet, "B", "B", 28)
	_ = f.SetColWidth(outputsSheet, "F", "F", 100)
	if len(rows) > 1 {
		last, _ := excelize.CoordinatesToCellName(6, len(rows))
		_ = f.SetCellStyle(outputsSheet, "F2", last, wrap)
	}

	prow := [][]any{{"Field", "Value"}}
	if b.Project != nil {
		prow = append(prow, []any{"Project", b.Project.Name}, []any{"Website", b.Project.WebsiteURL})
	}
	for _, row := range profileRows(b.Profile) {
		prow = append(prow, []any{row.Label, row.Value})
	}
	if err := writeRows(f, profileSheet, prow); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(profileSheet, "A1", "B1", header)
	_ = f.SetColWidth(profileSheet, "A", "A", 24)
	_ = f.SetColWidth(profileSheet, "B", "B", 80)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
