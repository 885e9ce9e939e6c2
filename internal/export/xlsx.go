package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// sheetName is the single worksheet carrying the roster.
const sheetName = "Squad Data"

// WriteXLSX writes the records as an Excel workbook with one sheet.
func WriteXLSX(w io.Writer, players []squad.PlayerRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("dropping default sheet: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, col := range csvHeader {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range players {
		row := []interface{}{p.Name, string(p.Position), p.Age, p.MarketValue, p.ContractExpires}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
