// Package export renders the squad dataset as downloadable CSV and XLSX
// files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/troyes-analytics/effectif/internal/squad"
)

// csvHeader matches the column order of the served dataset.
var csvHeader = []string{"Player Name", "Position", "Age", "Market Value (M€)", "Contract Expires"}

// utf8BOM lets Excel detect the encoding when opening the CSV directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the records as UTF-8 CSV with a byte order mark.
func WriteCSV(w io.Writer, players []squad.PlayerRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, p := range players {
		row := []string{
			p.Name,
			string(p.Position),
			strconv.Itoa(p.Age),
			strconv.FormatFloat(p.MarketValue, 'f', 2, 64),
			p.ContractExpires,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Filename builds the dated download name for the given extension.
func Filename(ext string) string {
	return fmt.Sprintf("troyes_squad_data_%s.%s", time.Now().Format("20060102"), ext)
}
